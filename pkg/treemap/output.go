package treemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ddddddO/gtree"
	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes n as indented JSON.
func MarshalJSON(n Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML encodes n as YAML.
func MarshalYAML(n Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteText writes n as an indented text tree, one line per entry:
//
//	Statemachine (size 7)
//	├── [0] Event (size 1)
//	└── [1] State (size 2)
//	    └── [0] Transition (size 1)
//
// Children are prefixed with their position among their siblings.
func WriteText(w io.Writer, n Node) error {
	root := gtree.NewRoot(label(n, -1))
	addChildren(root, n)
	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}

func addChildren(parent *gtree.Node, n Node) {
	for i, c := range n.Children {
		addChildren(parent.Add(label(c, i)), c)
	}
}

// label must be unique among siblings; gtree merges children with equal text.
func label(n Node, index int) string {
	title := n.Title
	if title == "" {
		title = "(untyped)"
	}
	if index < 0 {
		return fmt.Sprintf("%s (size %d)", title, n.Size)
	}
	return fmt.Sprintf("[%d] %s (size %d)", index, title, n.Size)
}
