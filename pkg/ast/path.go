package ast

import (
	"strconv"
	"strings"
)

// Resolve returns the node that path denotes within root, or nil.
//
// Paths start with '#' followed by '/'-separated segments. A segment is a
// property name, or "name@index" to select an element of a sequence. Empty
// segments are skipped, so "#" and "#/" both resolve to root and
// "#/a@1//b" is "#/a@1/b". Resolve never modifies the tree.
func Resolve(root *Node, path string) *Node {
	if root == nil || !strings.HasPrefix(path, "#") {
		return nil
	}

	current := root
	for _, seg := range strings.Split(path[1:], "/") {
		if current == nil {
			return nil
		}
		if seg == "" {
			continue
		}
		current = step(current, seg)
	}
	return current
}

func step(n *Node, seg string) *Node {
	if at := strings.IndexByte(seg, '@'); at > 0 {
		idx, ok := parseIndex(seg[at+1:])
		if !ok {
			return nil
		}
		v, _ := n.Get(seg[:at])
		list, ok := v.(List)
		if !ok || idx >= len(list) {
			return nil
		}
		child, _ := list[idx].(*Node)
		return child
	}
	return n.Child(seg)
}

// parseIndex reads the leading decimal digits of s, ignoring leading
// whitespace and any trailing text ("2", " 2", and "2x" all yield 2).
func parseIndex(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	s = strings.TrimPrefix(s, "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	idx, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return idx, true
}

// PathOf builds the path of a linked node from its container chain.
// The root's path is "#". PathOf is the inverse of [Resolve]:
// Resolve(root, PathOf(n)) == n for every node reachable from root.
func PathOf(n *Node) string {
	var segs []string
	for cur := n; cur != nil && cur.Container != nil; cur = cur.Container {
		seg := cur.ContainerProperty
		if cur.ContainerIndex != NoIndex {
			seg += "@" + strconv.Itoa(cur.ContainerIndex)
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return "#"
	}
	var b strings.Builder
	b.WriteString("#")
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(segs[i])
	}
	return b.String()
}
