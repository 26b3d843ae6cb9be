package paperkit

import "strings"

// BulkKey is how bulk results are keyed: "resource:action".
func BulkKey(resource, action string) string {
	return resource + ":" + action
}

// SplitBulkKey splits a bulk result key back into resource and action.
// Returns empty strings if the key is malformed.
func SplitBulkKey(key string) (resource, action string) {
	idx := strings.IndexByte(key, ':')
	if idx < 0 {
		return "", ""
	}
	return key[:idx], key[idx+1:]
}

// validateIdentifier checks a resource or action name used in the matrix.
// Names are lowercase alphanumeric identifiers with underscores, so they
// survive being embedded in bulk keys and URLs unescaped.
func validateIdentifier(name string) error {
	if name == "" {
		return NewError(ErrInvalidMatrix, "resource and action names cannot be empty")
	}
	for _, c := range name {
		if !isIdentifierChar(c) {
			return NewError(ErrInvalidMatrix, "name contains invalid character: "+name)
		}
	}
	return nil
}

func isIdentifierChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}
