package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Errorf("expected distinct ids, got %s twice", a)
	}
	if len(a) != 36 {
		t.Errorf("expected uuid-shaped id, got %s", a)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "run", "test")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected log output to contain the message, got %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		logger.Info("started")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !bytes.Contains(data, []byte("started")) {
			t.Errorf("expected log file to contain the message, got %q", data)
		}
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tui.log")
		if err := os.WriteFile(path, []byte("previous run\n"), 0644); err != nil {
			t.Fatalf("failed to seed log file: %v", err)
		}

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		logger.Info("next run")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !bytes.Contains(data, []byte("previous run")) || !bytes.Contains(data, []byte("next run")) {
			t.Errorf("expected both runs in the log file, got %q", data)
		}
	})
}
