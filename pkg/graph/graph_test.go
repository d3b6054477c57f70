package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/astviz/pkg/ast"
	"github.com/matzehuels/astviz/pkg/statemachine"
)

func mustDeserialize(t *testing.T, s string) *ast.Node {
	t.Helper()
	root, err := ast.DeserializeString(s)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}
	return root
}

func TestFromAST(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTypes []string
		wantEdges [][2]int
	}{
		{
			name:      "Single",
			input:     `{"$type": "A"}`,
			wantTypes: []string{"A"},
		},
		{
			name:      "Child",
			input:     `{"$type": "A", "child": {"$type": "B"}}`,
			wantTypes: []string{"A", "B"},
			wantEdges: [][2]int{{0, 1}},
		},
		{
			name:      "SiblingsAfterSubtree",
			input:     `{"$type": "A", "x": {"$type": "B", "y": {"$type": "C"}}, "z": {"$type": "D"}}`,
			wantTypes: []string{"A", "B", "C", "D"},
			wantEdges: [][2]int{{0, 1}, {1, 2}, {0, 3}},
		},
		{
			name:      "Sequence",
			input:     `{"$type": "X", "items": [{"$type": "Y"}, "scalar", {"$type": "Z"}]}`,
			wantTypes: []string{"X", "Y", "Z"},
			wantEdges: [][2]int{{0, 1}, {0, 2}},
		},
		{
			name:      "ReferencesIgnored",
			input:     `{"$type": "A", "items": [{"$type": "B"}], "r": {"$ref": "#/items@0"}, "rs": [{"$ref": "#"}]}`,
			wantTypes: []string{"A", "B"},
			wantEdges: [][2]int{{0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := FromAST(mustDeserialize(t, tt.input))

			if g.NodeCount() != len(tt.wantTypes) {
				t.Fatalf("NodeCount() = %d, want %d", g.NodeCount(), len(tt.wantTypes))
			}
			for i, n := range g.Nodes {
				if n.Type != tt.wantTypes[i] {
					t.Errorf("Nodes[%d].Type = %q, want %q", i, n.Type, tt.wantTypes[i])
				}
				if g.ID(n) != i {
					t.Errorf("ID(Nodes[%d]) = %d, want %d", i, g.ID(n), i)
				}
			}
			if g.EdgeCount() != len(tt.wantEdges) {
				t.Fatalf("EdgeCount() = %d, want %d", g.EdgeCount(), len(tt.wantEdges))
			}
			for i, e := range g.Edges {
				got := [2]int{g.ID(e.From), g.ID(e.To)}
				if got != tt.wantEdges[i] {
					t.Errorf("Edges[%d] = %v, want %v", i, got, tt.wantEdges[i])
				}
			}
		})
	}
}

func TestFromAST_TrafficLight(t *testing.T) {
	root, err := ast.Deserialize(statemachine.TrafficLightAST)
	if err != nil {
		t.Fatal(err)
	}
	g := FromAST(root)

	if g.NodeCount() != ast.Count(root) {
		t.Errorf("NodeCount() = %d, want %d", g.NodeCount(), ast.Count(root))
	}
	if g.EdgeCount() != g.NodeCount()-1 {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), g.NodeCount()-1)
	}

	states := root.Children("states")
	wantIDs := []int{3, 5, 8, 11}
	for i, s := range states {
		if g.ID(s) != wantIDs[i] {
			t.Errorf("ID(states[%d]) = %d, want %d", i, g.ID(s), wantIDs[i])
		}
	}

	seen := make(map[int]bool)
	for _, n := range g.Nodes {
		id := g.ID(n)
		if id < 0 || id >= g.NodeCount() || seen[id] {
			t.Errorf("id %d is not part of a dense permutation", id)
		}
		seen[id] = true
	}

	if got := len(g.Children(root)); got != 6 {
		t.Errorf("Children(root) = %d, want 6", got)
	}
	if got := strings.Join(g.Types(), ","); got != "Statemachine,Event,State,Transition" {
		t.Errorf("Types() = %s", got)
	}
}

func TestFromAST_Reprojection(t *testing.T) {
	root := mustDeserialize(t, `{"$type": "A", "b": {"$type": "B"}, "c": {"$type": "C"}}`)
	first := FromAST(root)
	second := FromAST(root)
	for i := range first.Nodes {
		if first.ID(first.Nodes[i]) != second.ID(second.Nodes[i]) {
			t.Errorf("reprojection changed id of node %d", i)
		}
	}
}

func TestFromAST_Nil(t *testing.T) {
	g := FromAST(nil)
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Error("FromAST(nil) should be empty")
	}
}

func TestMarshalGraph(t *testing.T) {
	g := FromAST(mustDeserialize(t, `{"$type": "Model", "name": "m", "items": [{"$type": "Item"}]}`))

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph() error: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Fatalf("document = %d nodes, %d edges; want 2, 1", len(doc.Nodes), len(doc.Edges))
	}
	if doc.Nodes[0].Name != "m" || doc.Nodes[0].Path != "#" {
		t.Errorf("root = %+v", doc.Nodes[0])
	}
	if doc.Nodes[1].Path != "#/items@0" || doc.Nodes[1].Color != "#028397" {
		t.Errorf("item = %+v", doc.Nodes[1])
	}
}

func TestWriteGraphFile(t *testing.T) {
	g := FromAST(mustDeserialize(t, `{"$type": "A", "child": {"$type": "B"}}`))
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadDocument() error: %v", err)
	}
	if len(doc.Nodes) != 2 || doc.Edges[0] != (EdgeData{From: 0, To: 1}) {
		t.Errorf("ReadDocument() = %+v", doc)
	}
}

func TestWriteGraphFile_BadPath(t *testing.T) {
	g := FromAST(mustDeserialize(t, `{"$type": "A"}`))
	if err := WriteGraphFile(g, filepath.Join(t.TempDir(), "missing", "graph.json")); err == nil {
		t.Error("WriteGraphFile() should fail for a missing directory")
	}
}
