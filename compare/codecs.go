// Package compare measures LZNF against the general-purpose codecs of the Go
// ecosystem and compares models for the literal stream.
package compare

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/andybalholm/lznf"
	"github.com/dsnet/compress/bzip2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// A Codec is a compressor together with its decompressor.
type Codec interface {
	Name() string

	// Compress appends the compressed form of src to dst.
	Compress(dst, src []byte) ([]byte, error)

	// Decompress appends the decompressed form of src to dst.
	Decompress(dst, src []byte) ([]byte, error)
}

// Default returns one codec of every supported kind, LZNF first.
func Default() []Codec {
	return []Codec{
		LZNF{},
		Zstd(zstd.SpeedDefault),
		S2(false),
		Snappy{},
		LZ4{},
		Flate(flate.DefaultCompression),
		Brotli(brotli.DefaultCompression),
		XZ{},
		Bzip2(bzip2.DefaultCompression),
	}
}

// LZNF is the codec of package lznf.
type LZNF struct {
	Parallel bool
}

func (c LZNF) Name() string { return "lznf" }

func (c LZNF) Compress(dst, src []byte) ([]byte, error) {
	codec := lznf.Codec{Parallel: c.Parallel}
	out, err := codec.Compress(src, "")
	if err != nil {
		return dst, err
	}
	return append(dst, out...), nil
}

func (c LZNF) Decompress(dst, src []byte) ([]byte, error) {
	codec := lznf.Codec{Parallel: c.Parallel}
	out, _, err := codec.Decompress(src)
	if err != nil {
		return dst, err
	}
	return append(dst, out...), nil
}

// Snappy is the snappy block format.
type Snappy struct{}

func (Snappy) Name() string { return "snappy" }

func (Snappy) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, snappy.Encode(nil, src)...), nil
}

func (Snappy) Decompress(dst, src []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return dst, err
	}
	return append(dst, out...), nil
}

// S2 is the s2 block format, using the better (slower) encoder if better is
// set.
type S2 bool

func (c S2) Name() string {
	if c {
		return "s2-better"
	}
	return "s2"
}

func (c S2) Compress(dst, src []byte) ([]byte, error) {
	if c {
		return append(dst, s2.EncodeBetter(nil, src)...), nil
	}
	return append(dst, s2.Encode(nil, src)...), nil
}

func (S2) Decompress(dst, src []byte) ([]byte, error) {
	out, err := s2.Decode(nil, src)
	if err != nil {
		return dst, err
	}
	return append(dst, out...), nil
}

// Zstd is zstandard at the given encoder level.
type Zstd zstd.EncoderLevel

func (c Zstd) Name() string { return "zstd-" + zstd.EncoderLevel(c).String() }

func (c Zstd) Compress(dst, src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(c)))
	if err != nil {
		return dst, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, dst), nil
}

func (Zstd) Decompress(dst, src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return dst, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, dst)
}

// A streamCodec adapts a writer/reader pair to the Codec interface.
type streamCodec struct {
	name      string
	newWriter func(io.Writer) (io.WriteCloser, error)
	newReader func(io.Reader) (io.Reader, error)
}

func (c streamCodec) Name() string { return c.name }

func (c streamCodec) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w, err := c.newWriter(buf)
	if err != nil {
		return dst, err
	}
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c streamCodec) Decompress(dst, src []byte) ([]byte, error) {
	r, err := c.newReader(bytes.NewReader(src))
	if err != nil {
		return dst, err
	}
	buf := bytes.NewBuffer(dst)
	if _, err := buf.ReadFrom(r); err != nil {
		return dst, err
	}
	if rc, ok := r.(io.Closer); ok {
		if err := rc.Close(); err != nil {
			return dst, err
		}
	}
	return buf.Bytes(), nil
}

// Flate is DEFLATE at the given level.
func Flate(level int) Codec {
	return streamCodec{
		name: fmt.Sprintf("flate-%d", level),
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		},
		newReader: func(r io.Reader) (io.Reader, error) {
			return flate.NewReader(r), nil
		},
	}
}

// Brotli is brotli at the given quality.
func Brotli(level int) Codec {
	return streamCodec{
		name: fmt.Sprintf("brotli-%d", level),
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriterLevel(w, level), nil
		},
		newReader: func(r io.Reader) (io.Reader, error) {
			return brotli.NewReader(r), nil
		},
	}
}

// Bzip2 is bzip2 at the given level.
func Bzip2(level int) Codec {
	return streamCodec{
		name: fmt.Sprintf("bzip2-%d", level),
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
		},
		newReader: func(r io.Reader) (io.Reader, error) {
			return bzip2.NewReader(r, nil)
		},
	}
}

// LZ4 is the LZ4 frame format.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }

func (LZ4) Compress(dst, src []byte) ([]byte, error) {
	return streamCodec{newWriter: func(w io.Writer) (io.WriteCloser, error) {
		return lz4.NewWriter(w), nil
	}}.Compress(dst, src)
}

func (LZ4) Decompress(dst, src []byte) ([]byte, error) {
	return streamCodec{newReader: func(r io.Reader) (io.Reader, error) {
		return lz4.NewReader(r), nil
	}}.Decompress(dst, src)
}

// XZ is the xz format with default settings.
type XZ struct{}

func (XZ) Name() string { return "xz" }

func (XZ) Compress(dst, src []byte) ([]byte, error) {
	return streamCodec{newWriter: func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	}}.Compress(dst, src)
}

func (XZ) Decompress(dst, src []byte) ([]byte, error) {
	return streamCodec{newReader: func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	}}.Decompress(dst, src)
}
