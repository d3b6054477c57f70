package ast

// LinkAST relinks a freshly decoded tree in place, using root as both the node
// to link and the resolution root.
func LinkAST(root *Node) {
	Link(root, root, nil, "", NoIndex)
}

// Link installs container back-references on node and its descendants and
// resolves every reference placeholder against root.
//
// The container is stored outside the property list, so the walk can never
// climb back up through it.
func Link(node, root, container *Node, property string, index int) {
	node.Container = container
	node.ContainerProperty = property
	node.ContainerIndex = index

	for _, p := range node.props {
		switch v := p.Value.(type) {
		case List:
			for i, el := range v {
				switch el := el.(type) {
				case *Reference:
					el.Ref = Resolve(root, el.Path)
				case *Node:
					Link(el, root, node, p.Name, i)
				}
			}
		case *Reference:
			v.Ref = Resolve(root, v.Path)
		case *Node:
			Link(v, root, node, p.Name, NoIndex)
		}
	}
}
