package lznf

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
)

// A Bank is an immutable byte buffer together with its CRC-32 (IEEE).
type Bank struct {
	data []byte
	crc  uint32
}

// NewBank returns a Bank holding a copy of data.
func NewBank(data []byte) *Bank {
	return newBank(bytes.Clone(data))
}

// newBank takes ownership of data.
func newBank(data []byte) *Bank {
	return &Bank{
		data: data,
		crc:  crc32.ChecksumIEEE(data),
	}
}

// Bytes returns the contents of the bank. The caller must not modify them.
func (b *Bank) Bytes() []byte { return b.data }

func (b *Bank) Len() int { return len(b.data) }

func (b *Bank) CRC32() uint32 { return b.crc }

// LoadFile reads the file at path into a Bank. A missing file is reported as
// ErrSourceNotFound.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return newBank(data), nil
}

// WriteFile writes data to path, replacing any existing file.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
