package ast

import (
	"testing"
)

func TestCollectReferences_Order(t *testing.T) {
	root := loadTrafficLight(t)
	refs := CollectReferences(root)

	want := []string{
		"#/states@0",
		"#/events@0", "#/states@1",
		"#/events@0", "#/states@0", "#/events@1", "#/states@3",
		"#/events@0", "#/states@0", "#/events@1", "#/states@1",
		"#/events@0", "#/states@0", "#/events@1", "#/states@2",
	}
	if len(refs) != len(want) {
		t.Fatalf("CollectReferences() = %d refs, want %d", len(refs), len(want))
	}
	for i, r := range refs {
		if r.Path != want[i] {
			t.Errorf("refs[%d].Path = %q, want %q", i, r.Path, want[i])
		}
	}
}

func TestCollectReferences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "no references",
			input: `{"$type": "A", "b": {"$type": "B"}}`,
			want:  nil,
		},
		{
			name:  "sequence of references",
			input: `{"$type": "A", "refs": [{"$ref": "#/x"}, {"$ref": "#/y"}]}`,
			want:  []string{"#/x", "#/y"},
		},
		{
			name:  "duplicates kept",
			input: `{"$type": "A", "r1": {"$ref": "#/x"}, "r2": {"$ref": "#/x"}}`,
			want:  []string{"#/x", "#/x"},
		},
		{
			name:  "nested before sibling",
			input: `{"$type": "A", "child": {"$type": "B", "r": {"$ref": "#/inner"}}, "r": {"$ref": "#/outer"}}`,
			want:  []string{"#/inner", "#/outer"},
		},
		{
			name:  "opaque nested arrays are skipped",
			input: `{"$type": "A", "grid": [[{"$ref": "#/x"}]]}`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := DeserializeString(tt.input)
			if err != nil {
				t.Fatalf("DeserializeString() error: %v", err)
			}
			refs := CollectReferences(root)
			if len(refs) != len(tt.want) {
				t.Fatalf("CollectReferences() = %d refs, want %d", len(refs), len(tt.want))
			}
			for i, r := range refs {
				if r.Path != tt.want[i] {
					t.Errorf("refs[%d].Path = %q, want %q", i, r.Path, tt.want[i])
				}
			}
		})
	}
}

func TestCollectReferences_DoesNotFollowTargets(t *testing.T) {
	root := loadTrafficLight(t)
	// Subtree of PowerOff: one transition, two references.
	if got := len(CollectReferences(root.Children("states")[0])); got != 2 {
		t.Errorf("CollectReferences(PowerOff) = %d, want 2", got)
	}
}

func TestUnresolved(t *testing.T) {
	root := loadTrafficLight(t)
	if got := Unresolved(root); len(got) != 0 {
		t.Errorf("Unresolved() = %v, want none", got)
	}
}
