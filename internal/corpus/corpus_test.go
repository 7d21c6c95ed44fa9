package corpus

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func TestReaderSkipsBlankLines(t *testing.T) {
	path := writeFile(t, []byte("first\n\n   \n\tsecond  \n\n"))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	var lines []string
	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		lines = append(lines, line)
	}

	want := []string{"first", "second"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}
	if r.Lines() != 5 {
		t.Errorf("Lines() = %d, want 5", r.Lines())
	}
}

func TestReaderRejectsInvalidUTF8(t *testing.T) {
	path := writeFile(t, []byte("good line\n\xff\xfe broken\n"))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != nil {
		t.Fatalf("first line should be fine: %v", err)
	}
	_, err = r.Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatal("invalid UTF-8 should be a corpus error")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEachLine(t *testing.T) {
	path := writeFile(t, []byte("a\nb\n\nc\n"))

	var got []string
	err := EachLine(path, 0, nil, func(line string) error {
		got = append(got, line)
		return nil
	})
	if err != nil {
		t.Fatalf("EachLine failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %v, want %v", got, want)
	}
}

func TestEachLineStopsOnCallbackError(t *testing.T) {
	path := writeFile(t, []byte("a\nb\nc\n"))

	boom := errors.New("boom")
	var seen int
	err := EachLine(path, 0, nil, func(string) error {
		seen++
		if seen == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if seen != 2 {
		t.Errorf("callback ran %d times, want 2", seen)
	}
}

func TestEachLineProgress(t *testing.T) {
	path := writeFile(t, []byte("a\nb\nc\nd\n"))

	var reports []int64
	err := EachLine(path, 2, func(lines int64) {
		reports = append(reports, lines)
	}, func(string) error { return nil })
	if err != nil {
		t.Fatalf("EachLine failed: %v", err)
	}

	want := []int64{2, 4}
	if !reflect.DeepEqual(reports, want) {
		t.Errorf("progress reports = %v, want %v", reports, want)
	}
}
