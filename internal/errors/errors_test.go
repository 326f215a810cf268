package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestBuilderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuilderError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestBuilderError_WithContext(t *testing.T) {
	err := New(CategoryRender, SeverityError, "render failed").
		WithContext("path", "eep-0001.md").
		WithContext("template", "template.txt")

	if err.Context["path"] != "eep-0001.md" {
		t.Errorf("Context[path] = %v, want eep-0001.md", err.Context["path"])
	}
	if err.Context["template"] != "template.txt" {
		t.Errorf("Context[template] = %v, want template.txt", err.Context["template"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	wrapped := fmt.Errorf("outer: %w", RenderFailed("eep-0002.md", fmt.Errorf("boom")))
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match git category", configErr, CategoryGit, false},
		{"wrapped render error matches render category", wrapped, CategoryRender, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want %v", got, CategoryInternal)
	}
	if got := GetCategory(ParseFailed("x", nil)); got != CategoryParse {
		t.Errorf("GetCategory(parse) = %v, want %v", got, CategoryParse)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/eepbuilder.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/eepbuilder.yaml" {
			t.Errorf("Context[path] = %v", err.Context["path"])
		}
	})

	t.Run("TemplateFailed", func(t *testing.T) {
		cause := fmt.Errorf("no such key")
		err := TemplateFailed("template.txt", cause)
		if err.Category != CategoryTemplate {
			t.Errorf("Category = %v, want %v", err.Category, CategoryTemplate)
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("build.workers", "must be positive")
		if err.Context["field"] != "build.workers" {
			t.Errorf("Context[field] = %v, want build.workers", err.Context["field"])
		}
	})
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("f", "r"), 2},
		{ConfigNotFound("c"), 7},
		{ParseFailed("p", nil), 11},
		{InternalError("x", nil), 10},
	}
	for _, tt := range tests {
		if got := a.ExitCodeFor(tt.err); got != tt.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	a := NewCLIErrorAdapter(false, logger)
	a.out = &out

	code := a.Report(ConfigNotFound("eepbuilder.yaml"))
	if code != 7 {
		t.Errorf("Report() = %d, want 7", code)
	}
	if out.String() != "configuration file not found\n" {
		t.Errorf("output = %q", out.String())
	}
	if logs.Len() != 0 {
		t.Errorf("config errors should not be logged when not verbose, got %q", logs.String())
	}
}
