package graph

import (
	"testing"
)

func TestToForceGraph(t *testing.T) {
	g := FromAST(mustDeserialize(t, `{"$type": "A", "child": {"$type": "B"}}`))
	fg := ToForceGraph(g)

	want := []ForceNode{
		{ID: 0, NodeType: "A", Color: "#007179"},
		{ID: 1, NodeType: "B", Color: "#005223"},
	}
	if len(fg.Nodes) != len(want) {
		t.Fatalf("Nodes = %d, want %d", len(fg.Nodes), len(want))
	}
	for i := range want {
		if fg.Nodes[i] != want[i] {
			t.Errorf("Nodes[%d] = %+v, want %+v", i, fg.Nodes[i], want[i])
		}
	}
	if len(fg.Links) != 1 || fg.Links[0] != (ForceLink{Source: 0, Target: 1}) {
		t.Errorf("Links = %+v", fg.Links)
	}
}

func TestMarshalForceGraph(t *testing.T) {
	g := FromAST(mustDeserialize(t, `{"$type": "A", "child": {"$type": "B"}}`))
	data, err := MarshalForceGraph(g)
	if err != nil {
		t.Fatalf("MarshalForceGraph() error: %v", err)
	}
	want := `{"nodes":[{"id":0,"nodeType":"A","color":"#007179"},{"id":1,"nodeType":"B","color":"#005223"}],"links":[{"source":0,"target":1}]}`
	if string(data) != want {
		t.Errorf("MarshalForceGraph() =\n%s\nwant\n%s", data, want)
	}
}

func TestToForceGraph_Empty(t *testing.T) {
	data, err := MarshalForceGraph(FromAST(nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"nodes":[],"links":[]}` {
		t.Errorf("MarshalForceGraph(empty) = %s", data)
	}
}
