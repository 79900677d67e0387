package lznf

import (
	"fmt"

	"github.com/andybalholm/lznf/lzp"
)

// BlockInfo describes one block of a container.
type BlockInfo struct {
	TreeBytes int
	DataBytes int
	Symbols   int
}

func blockInfo(b *Block) BlockInfo {
	return BlockInfo{
		TreeBytes: b.TreeLen(),
		DataBytes: b.DataLen(),
		Symbols:   b.Leaves(),
	}
}

// Info summarizes a container without decompressing it.
type Info struct {
	Header         Header
	CompressedSize int
	Literals       BlockInfo
	Matches        BlockInfo
}

// Ratio returns the original size divided by the compressed size.
func (i *Info) Ratio() float64 {
	if i.CompressedSize == 0 {
		return 0
	}
	return float64(i.Header.Length) / float64(i.CompressedSize)
}

// Inspect parses the structure of a container. The blocks are not decoded,
// so the checksum is not verified.
func Inspect(data []byte) (*Info, error) {
	var cont Container
	if err := cont.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &Info{
		Header:         cont.Header,
		CompressedSize: len(data),
		Literals:       blockInfo(cont.Literals),
		Matches:        blockInfo(cont.Matches),
	}, nil
}

// Tokens decodes the blocks of a container and appends a readable rendering
// of the LZP stage to dst: literal bytes verbatim and each match as <Length>.
func Tokens(dst, data []byte) ([]byte, error) {
	var cont Container
	if err := cont.UnmarshalBinary(data); err != nil {
		return dst, err
	}
	var c Codec
	s, err := c.streams(&cont)
	if err != nil {
		return dst, err
	}
	dst, err = lzp.Text(dst, s)
	if err != nil {
		return dst, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return dst, nil
}
