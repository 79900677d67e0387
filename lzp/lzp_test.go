package lzp

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"testing"
)

func roundTrip(t *testing.T, src []byte) Streams {
	t.Helper()
	s := Split(src)
	if got := len(s.Literals) + s.MatchedBytes(); got != len(src) {
		t.Fatalf("%d literals + %d matched bytes != %d input bytes", len(s.Literals), s.MatchedBytes(), len(src))
	}
	decoded, err := Join(s)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, src) {
		t.Fatal("decompressed output doesn't match")
	}
	return s
}

func TestRepeatedByte(t *testing.T) {
	s := roundTrip(t, []byte("AAAAAAAA"))
	if string(s.Literals) != "AAAAAA" {
		t.Errorf("literals = %q, want %q", s.Literals, "AAAAAA")
	}
	if !bytes.Equal(s.Matches, []byte{1, 1}) {
		t.Errorf("matches = %v, want [1 1]", s.Matches)
	}
}

func TestLongRun(t *testing.T) {
	// One long match up to the last 3 bytes, then a short one before the
	// final literal.
	s := roundTrip(t, bytes.Repeat([]byte{'x'}, 1000))
	if len(s.Literals) != 7 {
		t.Errorf("%d literals, want 7", len(s.Literals))
	}
	if want := []byte{255, 255, 255, 227, 1}; !bytes.Equal(s.Matches, want) {
		t.Errorf("matches = %v, want %v", s.Matches, want)
	}
	if s.Runs() != 2 {
		t.Errorf("%d runs, want 2", s.Runs())
	}
}

func TestEscapeWithZeroRemainder(t *testing.T) {
	s := roundTrip(t, bytes.Repeat([]byte{'x'}, 263))
	if want := []byte{255, 0, 1}; !bytes.Equal(s.Matches, want) {
		t.Errorf("matches = %v, want %v", s.Matches, want)
	}
}

func TestShortInputs(t *testing.T) {
	for _, src := range []string{"", "a", "ab", "abc", "abcd"} {
		s := roundTrip(t, []byte(src))
		if string(s.Literals) != src || len(s.Matches) != 0 {
			t.Errorf("%q: got literals %q, matches %v", src, s.Literals, s.Matches)
		}
	}
}

func TestRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		src := make([]byte, rng.Intn(5000))
		alphabet := 1 + rng.Intn(8)
		for i := range src {
			src[i] = 'a' + byte(rng.Intn(alphabet))
		}
		roundTrip(t, src)
	}
}

func TestTestdata(t *testing.T) {
	data, err := os.ReadFile("../testdata/notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	s := roundTrip(t, data)
	if s.MatchedBytes() < len(data)/4 {
		t.Errorf("only %d of %d bytes matched", s.MatchedBytes(), len(data))
	}
}

func TestEncoderReuse(t *testing.T) {
	var e Encoder
	a := e.Encode(Streams{}, []byte("abcdabcdabcdabcd"))
	b := e.Encode(Streams{}, []byte("abcdabcdabcdabcd"))
	if !bytes.Equal(a.Literals, b.Literals) || !bytes.Equal(a.Matches, b.Matches) {
		t.Fatal("encoder state leaked between calls")
	}
}

func TestDecodeAppends(t *testing.T) {
	src := []byte("to be or not to be, that is the question")
	var d Decoder
	got, err := d.Decode([]byte("> "), Split(src))
	if err != nil {
		t.Fatal(err)
	}
	if want := append([]byte("> "), src...); !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCorruptStreams(t *testing.T) {
	run := Split(bytes.Repeat([]byte{'x'}, 1000))

	for name, s := range map[string]Streams{
		"no context":              {Literals: []byte("ab"), Matches: []byte{1}},
		"truncated escape":        {Literals: run.Literals, Matches: []byte{255}},
		"zero-length final match": {Literals: run.Literals, Matches: append(bytes.Clone(run.Matches), 0)},
		"missing match":           {Literals: run.Literals},
	} {
		if _, err := Join(s); !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: got %v, want ErrCorrupt", name, err)
		}
	}

	d := Decoder{Limit: 999, Bounded: true}
	if _, err := d.Decode(nil, run); !errors.Is(err, ErrCorrupt) {
		t.Errorf("limit: got %v, want ErrCorrupt", err)
	}
	d.Limit = 1000
	if _, err := d.Decode(nil, run); err != nil {
		t.Errorf("exact limit: %v", err)
	}
	trailing := Streams{Literals: run.Literals, Matches: append(bytes.Clone(run.Matches), 3)}
	if _, err := d.Decode(nil, trailing); !errors.Is(err, ErrCorrupt) {
		t.Errorf("match past limit: got %v, want ErrCorrupt", err)
	}
}

// A failed prediction after the last literal copies nothing, so the output
// is complete and correct when it is reached. It must still be rejected.
func TestZeroLengthFinalMatch(t *testing.T) {
	src := bytes.Repeat([]byte{'x'}, 1000)
	run := Split(src)
	s := Streams{Literals: run.Literals, Matches: append(bytes.Clone(run.Matches), 0)}

	var d Decoder
	out, err := d.Decode(nil, s)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("got %v, want ErrCorrupt", err)
	}
	if !bytes.Equal(out, src) {
		t.Errorf("decoded %d bytes before the final match, want %d", len(out), len(src))
	}

	d = Decoder{Limit: len(src), Bounded: true}
	if _, err := d.Decode(nil, s); !errors.Is(err, ErrCorrupt) {
		t.Errorf("bounded: got %v, want ErrCorrupt", err)
	}
}

func TestZeroLimit(t *testing.T) {
	run := Split(bytes.Repeat([]byte{'x'}, 1000))
	d := Decoder{Bounded: true}
	out, err := d.Decode(nil, run)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("got %v, want ErrCorrupt", err)
	}
	if len(out) != 0 {
		t.Errorf("decoded %d bytes past a zero limit", len(out))
	}
	if _, err := d.Decode(nil, Streams{}); err != nil {
		t.Errorf("empty streams: %v", err)
	}
}

func TestText(t *testing.T) {
	got, err := Text(nil, Split([]byte("AAAAAAAA")))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "AAAAA<1>A<1>" {
		t.Fatalf("got %q", got)
	}
}

func TestTextHidesFailedPredictions(t *testing.T) {
	s := roundTrip(t, []byte("abcdXabcdY"))
	if !bytes.Equal(s.Matches, []byte{0}) {
		t.Fatalf("matches = %v, want [0]", s.Matches)
	}
	got, err := Text(nil, s)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abcdXabcdY" {
		t.Fatalf("got %q", got)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("AAAAAAAA"))
	f.Add([]byte("abcabcabcabcabc"))
	f.Fuzz(func(t *testing.T, src []byte) {
		roundTrip(t, src)
	})
}

func FuzzJoin(f *testing.F) {
	f.Add([]byte("abcdabcd"), []byte{1, 0})
	f.Fuzz(func(t *testing.T, literals, matches []byte) {
		d := Decoder{Limit: 1 << 20, Bounded: true}
		d.Decode(nil, Streams{Literals: literals, Matches: matches})
	})
}

func BenchmarkSplit(b *testing.B) {
	b.StopTimer()
	b.ReportAllocs()
	data, err := os.ReadFile("../testdata/notes.txt")
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	s := Split(data)
	b.ReportMetric(float64(len(data))/float64(len(s.Literals)+len(s.Matches)), "ratio")
	var e Encoder
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		s = e.Encode(Streams{Literals: s.Literals[:0], Matches: s.Matches[:0]}, data)
	}
}
