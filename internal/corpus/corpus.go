// Package corpus reads line-oriented UTF-8 text corpora, one phrase per line.
// It is shared by the trigram and unigram trainers.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrEmpty is returned when a corpus yields no usable lines.
var ErrEmpty = errors.New("corpus: no usable lines")

// maxLineBytes bounds a single corpus line. Lines beyond this are a sign of
// a binary or malformed input rather than a phrase list.
const maxLineBytes = 1 << 20

// Reader iterates over non-empty corpus lines with strict UTF-8 checking.
type Reader struct {
	path    string
	f       *os.File
	scanner *bufio.Scanner
	lines   int64
}

// Open opens a corpus file for line iteration.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Reader{path: path, f: f, scanner: sc}, nil
}

// Next returns the next non-empty line, trimmed of surrounding whitespace.
// io.EOF signals the end of the corpus. Invalid UTF-8 is a corpus error:
// fatal for this file, surfaced immediately.
func (r *Reader) Next() (string, error) {
	for r.scanner.Scan() {
		r.lines++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if !utf8.ValidString(line) {
			return "", fmt.Errorf("corpus: %s: line %d is not valid UTF-8", r.path, r.lines)
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("corpus: %s: %w", r.path, err)
	}
	return "", io.EOF
}

// Lines returns the number of raw lines consumed so far.
func (r *Reader) Lines() int64 { return r.lines }

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

// EachLine streams every non-empty line of the corpus at path to fn, calling
// progress (if non-nil) every progressEvery lines. Processing order within
// one corpus affects only progress reporting, never accumulated counts.
func EachLine(path string, progressEvery int64, progress func(lines int64), fn func(line string) error) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(line); err != nil {
			return err
		}
		if progress != nil && progressEvery > 0 && r.lines%progressEvery == 0 {
			progress(r.lines)
		}
	}
}
