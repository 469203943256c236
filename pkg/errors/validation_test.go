package errors

import (
	"strings"
	"testing"
)

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"stdin", "-", false},
		{"relative file", "reports/failures.json", false},
		{"absolute file", "/var/ci/failures.json", false},
		{"http url", "http://ci.local/failures", false},
		{"https url", "https://ci.example.com/api/failures?branch=main", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 3000), true},
		{"null byte", "fail\x00ures.json", true},
		{"newline", "failures.json\n", true},
		{"ftp url", "ftp://ci.example.com/failures", true},
		{"url without host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSource(%q) code = %v, want INVALID_INPUT", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://ci.example.com/failures", false},
		{"http://localhost:8080/failures", false},
		{"", true},
		{"ci.example.com/failures", true},
		{"file:///etc/passwd", true},
		{"http://", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeMalformedInput,
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidScale,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
