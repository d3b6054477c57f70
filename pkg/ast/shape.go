package ast

// Keys names the marker fields of the wire format.
type Keys struct {
	// Type is the node discriminator field.
	Type string `toml:"type_key" validate:"required"`
	// Ref is the path field of a reference placeholder.
	Ref string `toml:"ref_key" validate:"required,nefield=Type"`
	// Container is the back-reference field. It and its "Property"/"Index"
	// companions are dropped from input since relinking reassigns them.
	Container string `toml:"container_key"`
}

// DefaultKeys is the Langium serialization format.
var DefaultKeys = Keys{Type: "$type", Ref: "$ref", Container: "$container"}

// PlainKeys uses unprefixed marker names.
var PlainKeys = Keys{Type: "type", Ref: "ref-path", Container: "container"}

func (k Keys) reserved(name string) bool {
	if k.Container == "" {
		return false
	}
	return name == k.Container || name == k.Container+"Property" || name == k.Container+"Index"
}

// IsReference reports whether v is shaped like a reference placeholder:
// a non-nil object whose ref field is a string.
//
// v may be a decoded generic JSON object (map[string]any) or a *Reference.
func (k Keys) IsReference(v any) bool {
	switch t := v.(type) {
	case *Reference:
		return t != nil
	case map[string]any:
		if t == nil {
			return false
		}
		_, ok := t[k.Ref].(string)
		return ok
	case object:
		return t.isString(k.Ref)
	}
	return false
}

// IsNode reports whether v is shaped like a node: a non-nil object whose
// type field is a string.
func (k Keys) IsNode(v any) bool {
	switch t := v.(type) {
	case *Node:
		return t != nil
	case map[string]any:
		if t == nil {
			return false
		}
		_, ok := t[k.Type].(string)
		return ok
	case object:
		return t.isString(k.Type)
	}
	return false
}

// IsReference reports whether v is a reference placeholder under [DefaultKeys].
func IsReference(v any) bool { return DefaultKeys.IsReference(v) }

// IsNode reports whether v is a node under [DefaultKeys].
func IsNode(v any) bool { return DefaultKeys.IsNode(v) }
