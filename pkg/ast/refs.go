package ast

// CollectReferences returns every reference placeholder reachable from node,
// in depth-first pre-order. References are leaves: their targets are not
// followed. Duplicates are kept.
func CollectReferences(node *Node) []*Reference {
	var refs []*Reference
	for _, p := range node.props {
		switch v := p.Value.(type) {
		case List:
			for _, el := range v {
				switch el := el.(type) {
				case *Reference:
					refs = append(refs, el)
				case *Node:
					refs = append(refs, CollectReferences(el)...)
				}
			}
		case *Reference:
			refs = append(refs, v)
		case *Node:
			refs = append(refs, CollectReferences(v)...)
		}
	}
	return refs
}

// Unresolved returns the references under node whose targets are missing.
func Unresolved(node *Node) []*Reference {
	var out []*Reference
	for _, r := range CollectReferences(node) {
		if r.Ref == nil {
			out = append(out, r)
		}
	}
	return out
}
