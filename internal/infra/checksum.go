package infra

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Checksum validation errors.
var (
	ErrHashMismatch      = errors.New("hash mismatch")
	ErrMalformedChecksum = errors.New("malformed checksum file")
	ErrChecksumEncoding  = errors.New("invalid checksum file encoding")
	ErrChecksumIO        = errors.New("failed to read update artifact")
)

// sha256HexLen is the length of a hex encoded SHA-256 digest.
const sha256HexLen = 64

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// ChecksumOptions controls which checksum file encodings are accepted.
type ChecksumOptions struct {
	// AllowUTF16 accepts UTF-16 files (with BOM, or BOM-less little endian)
	// as written by PowerShell on Windows.
	AllowUTF16 bool
}

// ValidateFileHash compares the SHA-256 of payloadPath with the digest
// published in checksumPath.
func ValidateFileHash(payloadPath, checksumPath string, opts ChecksumOptions) error {
	actual, err := computeSHA256(payloadPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChecksumIO, err)
	}

	raw, err := os.ReadFile(checksumPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChecksumIO, err)
	}

	expected, err := ParseChecksum(raw, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", checksumPath, err)
	}

	if expected != actual {
		return fmt.Errorf("%w: %s has %s, checksum file says %s", ErrHashMismatch, payloadPath, actual, expected)
	}
	return nil
}

// ParseChecksum extracts the uppercase hex digest from checksum file content.
// The digest is the leading run of hex characters and must be followed by
// whitespace or the end of the file, so "<hex>  <filename>" works.
func ParseChecksum(raw []byte, opts ChecksumOptions) (string, error) {
	text, err := decodeChecksumText(raw, opts)
	if err != nil {
		return "", err
	}

	text = strings.TrimLeft(text, " \t\r\n")
	end := 0
	for end < len(text) && isHexDigit(text[end]) {
		end++
	}

	if end != sha256HexLen {
		return "", fmt.Errorf("%w: expected %d hex characters, found %d", ErrMalformedChecksum, sha256HexLen, end)
	}
	if end < len(text) && !isSpace(text[end]) {
		return "", fmt.Errorf("%w: digest followed by %q", ErrMalformedChecksum, text[end])
	}

	return strings.ToUpper(text[:end]), nil
}

func decodeChecksumText(raw []byte, opts ChecksumOptions) (string, error) {
	if opts.AllowUTF16 && looksLikeUTF16(raw) {
		decoder := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
		out, _, err := transform.Bytes(decoder, raw)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrChecksumEncoding, err)
		}
		return string(out), nil
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrChecksumEncoding)
	}
	return string(raw), nil
}

func looksLikeUTF16(raw []byte) bool {
	if bytes.HasPrefix(raw, utf16LEBOM) || bytes.HasPrefix(raw, utf16BEBOM) {
		return true
	}
	// ASCII text in UTF-16LE has a zero high byte.
	return len(raw) >= 2 && raw[0] != 0 && raw[1] == 0
}

// computeSHA256 returns the uppercase hex SHA-256 of the file at path.
func computeSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
