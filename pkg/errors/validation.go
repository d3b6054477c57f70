package errors

import (
	"strings"
	"unicode"
)

// ValidateRefPath checks that path is syntactically a reference path
// ("#" or "#/segment/..."). It does not check that the path resolves.
//
// Rules:
//   - Path cannot be empty
//   - Must start with '#'
//   - Maximum length of 4096 characters
//   - No control characters
//   - A "name@index" segment needs a non-empty name and a decimal index
func ValidateRefPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if !strings.HasPrefix(path, "#") {
		return New(ErrCodeInvalidPath, "path must start with '#': %q", path)
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	rest := strings.TrimPrefix(path[1:], "/")
	if rest == "" {
		return nil
	}
	for _, seg := range strings.Split(rest, "/") {
		name, idx, hasIdx := strings.Cut(seg, "@")
		if !hasIdx {
			continue
		}
		if name == "" {
			return New(ErrCodeInvalidPath, "segment %q has no property name", seg)
		}
		if idx == "" || strings.TrimLeft(idx, "0123456789") != "" {
			return New(ErrCodeInvalidPath, "segment %q has an invalid index", seg)
		}
	}
	return nil
}

// ValidateURL validates a language service URL.
// It ensures the URL has a WebSocket scheme (ws or wss).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "ws://") && !strings.HasPrefix(rawURL, "wss://") {
		return New(ErrCodeInvalidInput, "URL must use ws or wss scheme")
	}

	return nil
}
