package ast

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/astviz/pkg/errors"
)

// Deserialize parses a serialized AST with [DefaultKeys] and relinks it.
// Malformed JSON is returned as an [errors.ErrCodeInvalidAST] error.
// Unresolvable references are not errors; their Ref stays nil.
//
// Only the Langium markers ($type, $ref) are recognized. Input written with
// plain "type" and "ref-path" fields must go through [DeserializeWithKeys]
// with [PlainKeys]; Deserialize would read it as an untyped root with no
// nodes or references below it.
func Deserialize(content []byte) (*Node, error) {
	return DeserializeWithKeys(content, DefaultKeys)
}

// DeserializeString is Deserialize for string input.
func DeserializeString(content string) (*Node, error) {
	return Deserialize([]byte(content))
}

// DeserializeWithKeys parses content using the given marker keys and relinks it.
func DeserializeWithKeys(content []byte, keys Keys) (*Node, error) {
	d := decoder{keys: keys}
	root, err := d.root(content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAST, err, "decode AST")
	}
	LinkAST(root)
	return root, nil
}

// ReadAST reads and deserializes an AST from r.
func ReadAST(r io.Reader, keys Keys) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return DeserializeWithKeys(data, keys)
}

// ReadASTFile reads and deserializes an AST file.
func ReadASTFile(path string, keys Keys) (*Node, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return DeserializeWithKeys(data, keys)
}
