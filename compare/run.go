package compare

import (
	"errors"
	"fmt"
	"time"

	"github.com/pierrec/xxHash/xxHash32"
)

var ErrMismatch = errors.New("compare: round trip mismatch")

// A Result is the outcome of running one codec on one input.
type Result struct {
	Codec          string
	Size           int
	CompressedSize int
	CompressTime   time.Duration
	DecompressTime time.Duration

	// Checksum is the xxHash32 of the decompressed output.
	Checksum uint32
}

// Ratio returns the original size divided by the compressed size.
func (r Result) Ratio() float64 {
	if r.CompressedSize == 0 {
		return 0
	}
	return float64(r.Size) / float64(r.CompressedSize)
}

// Run compresses and decompresses src with every codec, in order, and checks
// that each one reproduces src.
func Run(src []byte, codecs []Codec) ([]Result, error) {
	want := xxHash32.Checksum(src, 0)

	results := make([]Result, 0, len(codecs))
	var compressed, decompressed []byte
	for _, c := range codecs {
		r := Result{Codec: c.Name(), Size: len(src)}

		start := time.Now()
		var err error
		compressed, err = c.Compress(compressed[:0], src)
		if err != nil {
			return results, fmt.Errorf("compare: %s: compress: %w", c.Name(), err)
		}
		r.CompressTime = time.Since(start)
		r.CompressedSize = len(compressed)

		start = time.Now()
		decompressed, err = c.Decompress(decompressed[:0], compressed)
		if err != nil {
			return results, fmt.Errorf("compare: %s: decompress: %w", c.Name(), err)
		}
		r.DecompressTime = time.Since(start)

		h := xxHash32.New(0)
		h.Write(decompressed)
		r.Checksum = h.Sum32()
		if r.Checksum != want || len(decompressed) != len(src) {
			return results, fmt.Errorf("%w: %s", ErrMismatch, c.Name())
		}
		results = append(results, r)
	}
	return results, nil
}
