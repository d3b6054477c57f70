package ast

import (
	"testing"
)

func TestIsReference(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"placeholder", map[string]any{"$ref": "#/states@0"}, true},
		{"placeholder with text", map[string]any{"$ref": "#/a", "$refText": "a"}, true},
		{"non-string path", map[string]any{"$ref": 3.0}, false},
		{"node", map[string]any{"$type": "State"}, false},
		{"nil map", map[string]any(nil), false},
		{"nil", nil, false},
		{"string", "#/a", false},
		{"typed reference", NewReference("#/a"), true},
		{"typed nil reference", (*Reference)(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReference(tt.v); got != tt.want {
				t.Errorf("IsReference(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestIsNode(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"node", map[string]any{"$type": "State"}, true},
		{"empty type", map[string]any{"$type": ""}, true},
		{"non-string type", map[string]any{"$type": true}, false},
		{"placeholder", map[string]any{"$ref": "#/a"}, false},
		{"array", []any{map[string]any{"$type": "A"}}, false},
		{"nil", nil, false},
		{"typed node", NewNode("A"), true},
		{"typed nil node", (*Node)(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNode(tt.v); got != tt.want {
				t.Errorf("IsNode(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestPlainKeys(t *testing.T) {
	if !PlainKeys.IsNode(map[string]any{"type": "A"}) {
		t.Error("PlainKeys.IsNode should accept a type field")
	}
	if !PlainKeys.IsReference(map[string]any{"ref-path": "#/a"}) {
		t.Error("PlainKeys.IsReference should accept a ref-path field")
	}
	if PlainKeys.IsNode(map[string]any{"$type": "A"}) {
		t.Error("PlainKeys.IsNode should ignore $type")
	}
}

func TestDecodeClassification(t *testing.T) {
	// An object carrying both markers is a reference inside a sequence and a
	// node everywhere else.
	root, err := DeserializeString(`{
		"$type": "Root",
		"single": {"$type": "Both", "$ref": "#"},
		"many": [{"$type": "Both", "$ref": "#"}],
		"plain": {"name": "not a node"},
		"nested": [[{"$type": "Hidden"}]],
		"count": 3
	}`)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}

	if _, ok := mustGet(t, root, "single").(*Node); !ok {
		t.Error("single ambiguous value should be a node")
	}
	list, ok := mustGet(t, root, "many").(List)
	if !ok || len(list) != 1 {
		t.Fatalf("many should be a one-element list, got %#v", mustGet(t, root, "many"))
	}
	if _, ok := list[0].(*Reference); !ok {
		t.Error("ambiguous sequence element should be a reference")
	}
	if _, ok := mustGet(t, root, "plain").(Scalar); !ok {
		t.Error("object without markers should stay a scalar")
	}
	nested := mustGet(t, root, "nested").(List)
	if _, ok := nested[0].(Scalar); !ok {
		t.Error("nested sequence should stay a scalar")
	}
	if _, ok := mustGet(t, root, "count").(Scalar); !ok {
		t.Error("number should be a scalar")
	}
}

func TestDecodeKeepsOrder(t *testing.T) {
	root, err := DeserializeString(`{"z": 1, "$type": "R", "a": 2, "m": {"$type": "C"}}`)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}
	var names []string
	for _, p := range root.Props() {
		names = append(names, p.Name)
	}
	want := []string{"z", "a", "m"}
	if len(names) != len(want) {
		t.Fatalf("props = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("props[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDecodeDropsContainerFields(t *testing.T) {
	root, err := DeserializeString(`{"$type": "R", "$container": {"$type": "X"}, "$containerProperty": "p", "$containerIndex": 2}`)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}
	if len(root.Props()) != 0 {
		t.Errorf("container fields should be dropped, got %d props", len(root.Props()))
	}
	if root.Container != nil || root.ContainerProperty != "" || root.ContainerIndex != NoIndex {
		t.Error("root container fields should be absent")
	}
}

func TestDecodeDuplicateKeys(t *testing.T) {
	root, err := DeserializeString(`{"$type": "R", "a": 1, "b": 2, "a": 3}`)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}
	props := root.Props()
	if len(props) != 2 || props[0].Name != "a" {
		t.Fatalf("duplicate key should keep first position, got %v", props)
	}
	if string(props[0].Value.(Scalar).Raw) != "3" {
		t.Errorf("duplicate key should keep last value, got %s", props[0].Value.(Scalar).Raw)
	}
}

func mustGet(t *testing.T, n *Node, name string) Value {
	t.Helper()
	v, ok := n.Get(name)
	if !ok {
		t.Fatalf("property %q missing", name)
	}
	return v
}
