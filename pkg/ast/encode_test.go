package ast

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSerialize_RoundTrip(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "trafficlight.ast.json"))
	if err != nil {
		t.Fatal(err)
	}
	root, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}

	out, err := Serialize(root)
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	var want, got any
	if err := json.Unmarshal(data, &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Serialize() produced invalid JSON: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip changed the document:\n%s", out)
	}

	again, err := Deserialize(out)
	if err != nil {
		t.Fatalf("Deserialize(Serialize()) error: %v", err)
	}
	if Count(again) != Count(root) || len(CollectReferences(again)) != len(CollectReferences(root)) {
		t.Error("round trip changed the tree shape")
	}
}

func TestSerialize_OmitsContainerFields(t *testing.T) {
	root, err := DeserializeString(`{"$type": "A", "b": {"$type": "B", "$container": {}, "$containerProperty": "b"}}`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Serialize(root)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(out, []byte("$container")) {
		t.Errorf("Serialize() wrote container fields: %s", out)
	}
}

func TestSerialize_TypeFirst(t *testing.T) {
	root := NewNode("Model", Prop("name", ScalarOf("m")), Prop("ref", NewReference("#")))
	out, err := Serialize(root)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"$type":"Model","name":"m","ref":{"$ref":"#"}}`
	if string(out) != want {
		t.Errorf("Serialize() = %s, want %s", out, want)
	}
}

func TestSerializeWithKeys(t *testing.T) {
	root := NewNode("Model", Prop("ref", NewReference("#/x")))
	out, err := SerializeWithKeys(root, PlainKeys)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"Model","ref":{"ref-path":"#/x"}}`
	if string(out) != want {
		t.Errorf("SerializeWithKeys() = %s, want %s", out, want)
	}
}

func TestWriteAST(t *testing.T) {
	root := NewNode("Model", Prop("items", Nodes(NewNode("Item"))))
	var buf bytes.Buffer
	if err := WriteAST(&buf, root, DefaultKeys); err != nil {
		t.Fatalf("WriteAST() error: %v", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("WriteAST() should end with a newline: %q", out)
	}
	if !strings.Contains(out, "\n  \"items\": [") {
		t.Errorf("WriteAST() should indent: %s", out)
	}
}
