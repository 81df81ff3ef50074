package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "BEGIN", false},
		{"valid empty", "", false},
		{"valid symbols", "<=>", false},
		{"valid unicode", "→ übung", false},
		{"max length multibyte", strings.Repeat("é", 1024), false},

		{"too long", strings.Repeat("x", 1025), true},
		{"too long multibyte", strings.Repeat("é", 1025), true},
		{"tab", "foo\tbar", true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMeasure(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 12.5, false},

		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
		{"-Inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMeasure("width", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMeasure(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeGeometry) {
				t.Errorf("ValidateMeasure(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeGeometry)
			}
		})
	}
}

func TestValidateHref(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},
		{"mailto", "mailto:someone@example.com", false},
		{"fragment", "#rule-expr", false},
		{"relative", "grammar/expr.svg", false},
		{"relative with colon", "/docs/a:b", false},

		{"empty", "", true},
		{"javascript", "javascript:alert(1)", true},
		{"javascript upper", "JavaScript:alert(1)", true},
		{"file", "file:///etc/passwd", true},
		{"space", "http://example.com/a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHref(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHref(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateClassName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "keyword", false},
		{"dash", "rule-ref", false},
		{"underscore", "_x", false},

		{"empty", "", true},
		{"starts with digit", "1x", true},
		{"space", "a b", true},
		{"quote", `a"b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClassName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClassName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "out/expr.svg", false},
		{"valid filename only", "expr.svg", false},
		{"valid with dots", "v1.2.3/expr.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
