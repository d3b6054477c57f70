package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// jvalue is a parsed JSON value. Raw is the exact source text of the value;
// objects and arrays also carry their parsed members.
type jvalue struct {
	raw   json.RawMessage
	kind  byte // '{', '[', '"', or the lead byte of another scalar
	str   string
	obj   object
	elems []*jvalue
}

// field is one member of a JSON object, kept in source order.
type field struct {
	key string
	val *jvalue
}

// object is a JSON object whose members keep their source order.
type object []field

func (o object) lookup(key string) (*jvalue, bool) {
	for _, f := range o {
		if f.key == key {
			return f.val, true
		}
	}
	return nil, false
}

func (o object) isString(key string) bool {
	v, ok := o.lookup(key)
	return ok && v.kind == '"'
}

// kindOf returns the first significant byte of raw.
func kindOf(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// parser reads one JSON document in a single pass over a token stream,
// slicing each value's source text out of data.
type parser struct {
	dec  *json.Decoder
	data []byte
}

func newParser(data []byte) *parser {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &parser{dec: dec, data: data}
}

// offset is the start of the next value: the decoder's position past any
// whitespace and pending separators.
func (p *parser) offset() int {
	off := int(p.dec.InputOffset())
	for off < len(p.data) && bytes.IndexByte([]byte(" \t\r\n,:"), p.data[off]) >= 0 {
		off++
	}
	return off
}

func (p *parser) token() (json.Token, error) {
	tok, err := p.dec.Token()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return tok, err
}

func (p *parser) parse() (*jvalue, error) {
	start := p.offset()
	tok, err := p.token()
	if err != nil {
		return nil, err
	}

	v := &jvalue{}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v.kind = '{'
			if v.obj, err = p.members(); err != nil {
				return nil, err
			}
		case '[':
			v.kind = '['
			for p.dec.More() {
				el, err := p.parse()
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(v.elems), err)
				}
				v.elems = append(v.elems, el)
			}
			if _, err := p.token(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected %v", t)
		}
	case string:
		v.kind = '"'
		v.str = t
	default:
		v.kind = p.data[start]
	}
	v.raw = p.data[start:p.dec.InputOffset()]
	return v, nil
}

// members reads object members up to the closing brace. Duplicate keys keep
// the position of the first occurrence and the value of the last, matching
// JSON.parse.
func (p *parser) members() (object, error) {
	var obj object
	var index map[string]int
	for p.dec.More() {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := p.parse()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if index == nil {
			index = make(map[string]int)
		}
		if i, dup := index[key]; dup {
			obj[i].val = v
			continue
		}
		index[key] = len(obj)
		obj = append(obj, field{key: key, val: v})
	}
	if _, err := p.token(); err != nil {
		return nil, err
	}
	return obj, nil
}

type decoder struct {
	keys Keys
}

// root decodes the top-level document. The root is always a Node, even when
// it carries no type field.
func (d *decoder) root(data []byte) (*Node, error) {
	if kindOf(data) != '{' {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("root must be a JSON object")
	}
	// Scalars keep slices of the input, so detach them from the caller's buffer.
	p := newParser(bytes.Clone(data))
	v, err := p.parse()
	if err != nil {
		return nil, err
	}
	if tok, err := p.dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected %v after root object", tok)
	}
	return d.node(v.obj), nil
}

func (d *decoder) node(obj object) *Node {
	n := &Node{ContainerIndex: NoIndex}
	for _, f := range obj {
		switch {
		case f.key == d.keys.Type && f.val.kind == '"':
			n.Type = f.val.str
		case d.keys.reserved(f.key):
		default:
			n.props = append(n.props, Property{Name: f.key, Value: d.value(f.val)})
		}
	}
	return n
}

func (d *decoder) reference(obj object) *Reference {
	r := &Reference{}
	for _, f := range obj {
		if f.key == d.keys.Ref {
			r.Path = f.val.str
			continue
		}
		r.extra = append(r.extra, Property{Name: f.key, Value: Scalar{Raw: f.val.raw}})
	}
	return r
}

// value classifies a property value. Nodes win over references here.
func (d *decoder) value(v *jvalue) Value {
	switch v.kind {
	case '{':
		switch {
		case d.keys.IsNode(v.obj):
			return d.node(v.obj)
		case d.keys.IsReference(v.obj):
			return d.reference(v.obj)
		}
	case '[':
		list := make(List, len(v.elems))
		for i, el := range v.elems {
			list[i] = d.element(el)
		}
		return list
	}
	return Scalar{Raw: v.raw}
}

// element classifies a sequence element. References win over nodes here, and
// nested sequences stay opaque.
func (d *decoder) element(v *jvalue) Value {
	if v.kind == '{' {
		switch {
		case d.keys.IsReference(v.obj):
			return d.reference(v.obj)
		case d.keys.IsNode(v.obj):
			return d.node(v.obj)
		}
	}
	return Scalar{Raw: v.raw}
}
