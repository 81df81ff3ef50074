package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateLabel validates the text of a terminal, non-terminal or comment.
//
// The validation rules are intentionally conservative:
//   - No control characters (tabs and newlines do not lay out)
//   - Maximum length of 1024 characters
//
// Empty labels are allowed; they produce a box with only padding.
func ValidateLabel(text string) error {
	if utf8.RuneCountInString(text) > 1024 {
		return New(ErrCodeInvalidInput, "label too long (max 1024 characters)")
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains control characters", text)
		}
	}

	return nil
}

// ValidateMeasure validates a measured or declared dimension.
// Layout arithmetic assumes every value is finite and non-negative.
func ValidateMeasure(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeGeometry, "%s is not finite: %v", what, v)
	}
	if v < 0 {
		return New(ErrCodeGeometry, "%s is negative: %v", what, v)
	}
	return nil
}

// ValidateHref validates a link target URL.
// It rejects script URLs and anything that is not http(s), mailto, a
// fragment or a relative reference.
func ValidateHref(href string) error {
	if href == "" {
		return New(ErrCodeInvalidInput, "link href cannot be empty")
	}

	for _, r := range href {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "link href contains invalid characters")
		}
	}

	scheme, _, found := strings.Cut(href, ":")
	if !found || strings.ContainsAny(scheme, "/?#") {
		// relative reference or fragment
		return nil
	}

	switch strings.ToLower(scheme) {
	case "http", "https", "mailto":
		return nil
	default:
		return New(ErrCodeInvalidInput, "link href uses unsupported scheme %q", scheme)
	}
}

// classNameRegex matches a single CSS class token.
var classNameRegex = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateClassName validates a CSS class added to a node's group.
func ValidateClassName(class string) error {
	if !classNameRegex.MatchString(class) {
		return New(ErrCodeInvalidStyle, "invalid CSS class name: %q", class)
	}
	return nil
}

// ValidatePath validates an output path supplied by a remote caller.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
