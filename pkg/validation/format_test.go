package validation

import (
	"testing"

	"github.com/iwvelando/lender-marketplace/pkg/constants"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		wantError bool
	}{
		{"Pretty", constants.OutputFormatPretty, false},
		{"CSV", constants.OutputFormatCSV, false},
		{"JSON", constants.OutputFormatJSON, false},
		{"Empty", "", true},
		{"Uppercase", "CSV", true},
		{"Unknown", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantError %v", tt.format, err, tt.wantError)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "warning", "error"} {
		if err := ValidateLogLevel(level); err != nil {
			t.Errorf("ValidateLogLevel(%q) unexpected error: %v", level, err)
		}
	}
	for _, level := range []string{"trace", "INFO", "fatal"} {
		if err := ValidateLogLevel(level); err == nil {
			t.Errorf("ValidateLogLevel(%q) expected error", level)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int64
		wantError bool
	}{
		{"Empty uses default", "", constants.DefaultMaxBodySizeBytes, false},
		{"Plain bytes", "512", 512, false},
		{"Bytes suffix", "512B", 512, false},
		{"Kilobytes", "64K", 64 * 1024, false},
		{"Kilobytes long suffix", "64kb", 64 * 1024, false},
		{"Megabytes", "2M", 2 * 1024 * 1024, false},
		{"Whitespace", " 8 K ", 8 * 1024, false},
		{"No digits", "K", 0, true},
		{"Unknown unit", "1G", 0, true},
		{"Zero", "0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSize(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseSize(%q) expected error, got %d", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseSize(%q) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}
