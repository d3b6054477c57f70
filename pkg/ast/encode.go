package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Serialize writes root back to the wire format with [DefaultKeys].
//
// The type field is written first, followed by the properties in source order.
// References are written as placeholders; container fields and resolved
// targets are never written, so Deserialize(Serialize(t)) rebuilds t.
func Serialize(root *Node) ([]byte, error) {
	return SerializeWithKeys(root, DefaultKeys)
}

// SerializeWithKeys is Serialize with custom marker keys.
func SerializeWithKeys(root *Node, keys Keys) ([]byte, error) {
	e := encoder{keys: keys}
	if err := e.node(root); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// WriteAST writes root as indented JSON to w.
func WriteAST(w io.Writer, root *Node, keys Keys) error {
	data, err := SerializeWithKeys(root, keys)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("indent: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

type encoder struct {
	keys Keys
	buf  bytes.Buffer
}

func (e *encoder) key(name string) error {
	k, err := json.Marshal(name)
	if err != nil {
		return err
	}
	e.buf.Write(k)
	e.buf.WriteByte(':')
	return nil
}

func (e *encoder) node(n *Node) error {
	e.buf.WriteByte('{')
	first := true
	// A root decoded without a string type may carry the type key as a
	// plain property; write it once.
	if _, clash := n.Get(e.keys.Type); !clash {
		if err := e.key(e.keys.Type); err != nil {
			return err
		}
		t, err := json.Marshal(n.Type)
		if err != nil {
			return err
		}
		e.buf.Write(t)
		first = false
	}
	for _, p := range n.props {
		if !first {
			e.buf.WriteByte(',')
		}
		first = false
		if err := e.key(p.Name); err != nil {
			return err
		}
		if err := e.value(p.Value); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) reference(r *Reference) error {
	e.buf.WriteByte('{')
	if err := e.key(e.keys.Ref); err != nil {
		return err
	}
	p, err := json.Marshal(r.Path)
	if err != nil {
		return err
	}
	e.buf.Write(p)
	for _, f := range r.extra {
		e.buf.WriteByte(',')
		if err := e.key(f.Name); err != nil {
			return err
		}
		if err := e.value(f.Value); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) value(v Value) error {
	switch v := v.(type) {
	case *Node:
		return e.node(v)
	case *Reference:
		return e.reference(v)
	case List:
		e.buf.WriteByte('[')
		for i, el := range v {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(el); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		e.buf.WriteByte(']')
	case Scalar:
		if len(v.Raw) == 0 {
			e.buf.WriteString("null")
			return nil
		}
		e.buf.Write(v.Raw)
	case nil:
		e.buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}
