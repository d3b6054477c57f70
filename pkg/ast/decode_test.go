package ast

import (
	"strings"
	"testing"
	"time"
)

// chain builds {"$type":"E","pad":"...","c":{...}} nested depth levels deep.
func chain(depth int) string {
	pad := `"pad": "` + strings.Repeat("x", 64) + `", `
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString(`{"$type": "E", ` + pad + `"c": `)
	}
	b.WriteString(`{"$type": "Leaf"}`)
	b.WriteString(strings.Repeat("}", depth))
	return b.String()
}

func TestDeserialize_DeepChain(t *testing.T) {
	const depth = 8000
	input := chain(depth)

	start := time.Now()
	root, err := DeserializeString(input)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("deserializing depth %d took %v", depth, elapsed)
	}
	if got := Count(root); got != depth+1 {
		t.Errorf("Count() = %d, want %d", got, depth+1)
	}

	leaf := root
	for leaf.Child("c") != nil {
		leaf = leaf.Child("c")
	}
	if leaf.Type != "Leaf" || leaf.ContainerProperty != "c" {
		t.Errorf("leaf = %q in %q", leaf.Type, leaf.ContainerProperty)
	}
}

func TestDeserialize_PropertyOrderAndDuplicates(t *testing.T) {
	root, err := DeserializeString(`{"$type": "A", "z": 1, "a": 2, "m": 3, "z": 4}`)
	if err != nil {
		t.Fatalf("DeserializeString() error: %v", err)
	}
	var names []string
	for _, p := range root.Props() {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "z,a,m" {
		t.Errorf("property order = %s, want z,a,m", got)
	}
	v, _ := root.Get("z")
	if raw := string(v.(Scalar).Raw); raw != "4" {
		t.Errorf("duplicate z = %s, want the last value 4", raw)
	}
}

func TestDeserialize_ScalarsKeepSourceText(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"float", `1.50`},
		{"huge number", `1e400`},
		{"escaped string", `"aA\n"`},
		{"opaque object", `{"x": [1, 2], "y": null}`},
		{"nested array", `[[1], {"$type": "Hidden"}]`},
		{"bool", `true`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"$type": "A", "v": ` + tt.value + `}`)
			root, err := Deserialize(data)
			if err != nil {
				t.Fatalf("Deserialize() error: %v", err)
			}
			v, _ := root.Get("v")
			if tt.name == "nested array" {
				list := v.(List)
				if raw := string(list[0].(Scalar).Raw); raw != "[1]" {
					t.Errorf("inner array = %s", raw)
				}
				return
			}
			if raw := string(v.(Scalar).Raw); raw != tt.value {
				t.Errorf("raw = %s, want %s", raw, tt.value)
			}
			// Scalars must not alias the caller's buffer.
			for i := range data {
				data[i] = ' '
			}
			if raw := string(v.(Scalar).Raw); raw != tt.value {
				t.Errorf("raw changed with input buffer: %q", raw)
			}
		})
	}
}
