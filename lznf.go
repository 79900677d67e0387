package lznf

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/andybalholm/lznf/lzp"
	"golang.org/x/sync/errgroup"
)

// A Codec compresses and decompresses LZNF containers.
// The zero value is ready to use.
type Codec struct {
	// Parallel codes the literal and match blocks concurrently.
	Parallel bool

	// Logger receives debug events. The default is slog.Default().
	Logger *slog.Logger
}

func (c *Codec) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// both runs f and g, concurrently if c.Parallel is set, and returns the
// first error.
func (c *Codec) both(f, g func() error) error {
	if !c.Parallel {
		if err := f(); err != nil {
			return err
		}
		return g()
	}
	var eg errgroup.Group
	eg.Go(f)
	eg.Go(g)
	return eg.Wait()
}

// Compress compresses src into a container that records name as the
// original file name.
func (c *Codec) Compress(src []byte, name string) ([]byte, error) {
	return c.CompressBank(newBank(src), name)
}

// CompressBank compresses the contents of b.
func (c *Codec) CompressBank(b *Bank, name string) ([]byte, error) {
	if b.Len() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d byte input", ErrTooLarge, b.Len())
	}

	s := lzp.Split(b.Bytes())

	cont := &Container{
		Header: Header{
			Length: b.Len(),
			CRC:    b.CRC32(),
			Name:   name,
		},
	}
	err := c.both(
		func() (err error) {
			cont.Literals, err = NewBlock(s.Literals)
			return err
		},
		func() (err error) {
			cont.Matches, err = NewBlock(s.Matches)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	out, err := cont.MarshalBinary()
	if err != nil {
		return nil, err
	}
	c.logger().Debug("compressed",
		"name", name,
		"size", b.Len(),
		"compressedSize", len(out),
		"literals", len(s.Literals),
		"matches", s.Runs(),
		"matchedBytes", s.MatchedBytes(),
	)
	return out, nil
}

// Decompress decodes a container and returns the original data and file
// name. Structural damage is reported as ErrCorrupt, a length or checksum
// mismatch as ErrIntegrity, and input that does not start with the LZNF
// magic number as ErrInvalidContainer.
func (c *Codec) Decompress(data []byte) ([]byte, string, error) {
	var cont Container
	if err := cont.UnmarshalBinary(data); err != nil {
		return nil, "", err
	}
	s, err := c.streams(&cont)
	if err != nil {
		return nil, "", err
	}

	h := &cont.Header
	d := lzp.Decoder{Limit: h.Length, Bounded: true}
	out, err := d.Decode(make([]byte, 0, min(h.Length, len(s.Literals)+s.MatchedBytes())), s)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if len(out) != h.Length {
		return nil, "", fmt.Errorf("%w: decoded %d bytes, header says %d", ErrIntegrity, len(out), h.Length)
	}
	if sum := newBank(out).CRC32(); sum != h.CRC {
		return nil, "", fmt.Errorf("%w: CRC-32 %08x, header says %08x", ErrIntegrity, sum, h.CRC)
	}

	c.logger().Debug("decompressed",
		"name", h.Name,
		"size", len(out),
		"compressedSize", len(data),
	)
	return out, h.Name, nil
}

// streams decodes both blocks of cont.
func (c *Codec) streams(cont *Container) (s lzp.Streams, err error) {
	err = c.both(
		func() (err error) {
			s.Literals, err = cont.Literals.Decode(nil)
			if err != nil {
				err = fmt.Errorf("literal block: %w", err)
			}
			return err
		},
		func() (err error) {
			s.Matches, err = cont.Matches.Decode(nil)
			if err != nil {
				err = fmt.Errorf("match block: %w", err)
			}
			return err
		},
	)
	return s, err
}

// Compress compresses src with a zero Codec.
func Compress(src []byte, name string) ([]byte, error) {
	var c Codec
	return c.Compress(src, name)
}

// Decompress decompresses data with a zero Codec.
func Decompress(data []byte) ([]byte, string, error) {
	var c Codec
	return c.Decompress(data)
}
