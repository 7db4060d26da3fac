package dataset

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns the hex BLAKE2b-256 digest of the file at path and the
// options it is parsed with. The cache uses it to detect a changed source CSV
// or a changed delimiter or encoding.
func Fingerprint(path string, opts LoadOptions) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: dataset file not found: %s", ErrInvalidInput, path)
		}
		return "", fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: dataset path is a directory: %s", ErrInvalidInput, path)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("initializing hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing dataset: %w", err)
	}
	opts = opts.normalized()
	fmt.Fprintf(h, "\x00delimiter=%q encoding=%s", opts.Delimiter, opts.Encoding)
	return hex.EncodeToString(h.Sum(nil)), nil
}
