package bitstream

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
)

type push struct {
	value uint64
	n     uint8
}

func writeAll(t *testing.T, pushes []push) []byte {
	t.Helper()
	w := NewWriter()
	for _, p := range pushes {
		w.WriteBits(p.value, p.n)
	}
	data, err := w.Close()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRoundTrip(t *testing.T) {
	pushes := []push{
		{1, 1}, {0, 1}, {5, 3}, {0xab, 8}, {2, 7}, {0, 0}, {0x1234, 13},
		{1<<64 - 1, 64}, {0, 5}, {3, 2},
	}
	data := writeAll(t, pushes)
	r, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pushes {
		got, err := r.ReadBits(p.n)
		if err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
		if got != p.value {
			t.Fatalf("push %d: got %#x, want %#x", i, got, p.value)
		}
	}
	if !r.EOF() {
		t.Fatalf("expected EOF, %d bits remain", r.Remaining())
	}
	if _, err := r.ReadBit(); err != io.EOF {
		t.Fatalf("ReadBit after end: got %v, want io.EOF", err)
	}
}

func TestRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		pushes := make([]push, rng.Intn(100))
		for i := range pushes {
			n := uint8(rng.Intn(65))
			v := rng.Uint64()
			if n < 64 {
				v &= 1<<n - 1
			}
			pushes[i] = push{v, n}
		}
		r, err := Load(writeAll(t, pushes))
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range pushes {
			got, err := r.ReadBits(p.n)
			if err != nil || got != p.value {
				t.Fatalf("iter %d push %d: got %#x (%v), want %#x", iter, i, got, err, p.value)
			}
		}
		if !r.EOF() {
			t.Fatalf("iter %d: %d bits left over", iter, r.Remaining())
		}
	}
}

func TestValueWiderThanLength(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0xff, 4)
	data, err := w.Close()
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xf0, 4}; !bytes.Equal(data, want) {
		t.Fatalf("got %x, want %x", data, want)
	}
}

func TestPadTrailer(t *testing.T) {
	for _, tc := range []struct {
		bits uint64
		want []byte
	}{
		{0, []byte{0}},
		{1, []byte{0x80, 7}},
		{7, []byte{0xfe, 1}},
		{8, []byte{0xff, 0}},
		{9, []byte{0xff, 0x80, 7}},
	} {
		w := NewWriter()
		for i := uint64(0); i < tc.bits; i++ {
			w.WriteBit(true)
		}
		if w.Len() != tc.bits {
			t.Fatalf("Len = %d, want %d", w.Len(), tc.bits)
		}
		data, err := w.Close()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, tc.want) {
			t.Errorf("%d bits: got %x, want %x", tc.bits, data, tc.want)
		}

		r, err := Load(data)
		if err != nil {
			t.Fatal(err)
		}
		if r.Remaining() != tc.bits {
			t.Errorf("%d bits: reloaded stream has %d bits", tc.bits, r.Remaining())
		}
	}
}

func TestEmptyStream(t *testing.T) {
	r, err := Load([]byte{0})
	if err != nil {
		t.Fatal(err)
	}
	if !r.EOF() {
		t.Fatal("empty stream should be at EOF")
	}
}

func TestWriteAfterClose(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}
	w.WriteBit(false)
	if !errors.Is(w.Err(), ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", w.Err())
	}
	if _, err := w.Close(); err == nil {
		t.Fatal("second Close should fail")
	}
}

func TestLoadRejects(t *testing.T) {
	for name, data := range map[string][]byte{
		"nil":             nil,
		"pad too large":   {0x00, 8},
		"pad on empty":    {3},
		"nonzero padding": {0x81, 7},
	} {
		if _, err := Load(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestReadBitsTruncated(t *testing.T) {
	r, err := Load([]byte{0xf0, 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadBits(5); !errors.Is(err, ErrTruncate) {
		t.Fatalf("got %v, want ErrTruncate", err)
	}
	v, err := r.ReadBits(4)
	if err != nil || v != 0xf {
		t.Fatalf("got %#x, %v", v, err)
	}
}
