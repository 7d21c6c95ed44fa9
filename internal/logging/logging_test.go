package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLevel(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("empty format should default to text, got %v, %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestNewNilConfig(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	defer l.Close()
	if l.Logger == nil {
		t.Fatal("expected a usable slog.Logger")
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relayout.log")

	l, err := New(&Config{
		Level:     LevelInfo,
		Format:    FormatJSON,
		Output:    "file",
		FilePath:  path,
		MaxSize:   10,
		Component: "test",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("hello", "key", "value")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("log output missing message: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("log output missing component: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	l, err := New(&Config{Level: LevelInfo, Output: "stderr"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer l.Close()

	scoped := l.WithComponent("trainer")
	if scoped.Logger == nil {
		t.Fatal("WithComponent returned unusable logger")
	}
}
