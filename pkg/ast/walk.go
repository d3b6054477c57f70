package ast

// Walk visits root and every node it contains, in depth-first pre-order.
// Returning false from fn skips the node's descendants.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, p := range root.props {
		switch v := p.Value.(type) {
		case List:
			for _, el := range v {
				if child, ok := el.(*Node); ok {
					Walk(child, fn)
				}
			}
		case *Node:
			Walk(v, fn)
		}
	}
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node) bool {
		n++
		return true
	})
	return n
}
