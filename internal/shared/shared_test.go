package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTruncate(t *testing.T) {
	tc := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{
			name: "shorter than limit",
			s:    "Kind of Blue",
			n:    20,
			want: "Kind of Blue",
		},
		{
			name: "exactly at limit",
			s:    "Blue",
			n:    4,
			want: "Blue",
		},
		{
			name: "cut with ellipsis",
			s:    "Flamenco Sketches",
			n:    9,
			want: "Flamenco…",
		},
		{
			name: "limit of one",
			s:    "So What",
			n:    1,
			want: "…",
		},
		{
			name: "zero limit",
			s:    "So What",
			n:    0,
			want: "",
		},
		{
			name: "multibyte runes",
			s:    "café société",
			n:    5,
			want: "café…",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.n)
			if got != tt.want {
				t.Errorf("Truncate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateJSON(t *testing.T) {
	t.Run("accepts well-formed JSON", func(t *testing.T) {
		if err := ValidateJSON([]byte(`{"admin_review": "excellent"}`)); err != nil {
			t.Errorf("expected valid JSON to pass, got %v", err)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		err := ValidateJSON([]byte(`{"admin_review": `))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tmp", "logs", "tui.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("hello")

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("log file should exist: %v", err)
		}
		if info.Size() == 0 {
			t.Error("expected log output to be written to the file")
		}
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tui.log")
		if err := os.WriteFile(path, []byte("earlier run\n"), 0644); err != nil {
			t.Fatal(err)
		}

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to reopen file logger: %v", err)
		}
		logger.Info("later run")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) <= len("earlier run\n") {
			t.Error("expected earlier contents to be preserved")
		}
	})
}
