package errors

import (
	"strings"
	"unicode"
)

// maxNodeIDLength bounds node names accepted from the CLI and HTTP API.
const maxNodeIDLength = 256

// ValidateNodeID validates a node name supplied by a user.
//
// The rules are conservative:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidNodeID, "node name cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "node name too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node name contains invalid control characters")
		}
	}

	return nil
}

// ValidateDocumentPath validates the path of a hierarchy document.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must end in .json
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return New(ErrCodeInvalidPath, "hierarchy document must be a .json file: %q", path)
	}

	return nil
}
