package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// ChecksumSize is the length in bytes of artifact checksums (BLAKE2b-256).
const ChecksumSize = 32

// ChecksumFile computes the BLAKE2b-256 digest and size of a file.
func ChecksumFile(path string) ([ChecksumSize]byte, int64, error) {
	var sum [ChecksumSize]byte

	f, err := os.Open(path)
	if err != nil {
		return sum, 0, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return sum, 0, fmt.Errorf("init hash: %w", err)
	}

	size, err := io.Copy(h, f)
	if err != nil {
		return sum, 0, fmt.Errorf("hash artifact: %w", err)
	}

	copy(sum[:], h.Sum(nil))
	return sum, size, nil
}

// Verify recomputes the checksum of the artifact's file and reports whether
// it still matches the recorded digest. A missing file is an error.
func (r *Registry) Verify(a *Artifact) (bool, error) {
	sum, _, err := ChecksumFile(a.Path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(sum[:], a.Checksum[:]), nil
}
