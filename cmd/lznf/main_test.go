package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/lznf"
)

func setup(t *testing.T) (dir, path string, data []byte) {
	t.Helper()
	data, err := os.ReadFile("../../testdata/notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	dir = t.TempDir()
	path = filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, path, data
}

func TestCompressDecompress(t *testing.T) {
	_, path, data := setup(t)
	if err := run("compress", []string{path}, io.Discard); err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	if err := run("decompress", []string{path + ".lznf", "-d", out}, io.Discard); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(out, "notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("decompressed output doesn't match")
	}
}

func TestCompressOutputFlag(t *testing.T) {
	dir, path, _ := setup(t)
	out := filepath.Join(dir, "custom.bin")
	if err := run("compress", []string{"-o", out, path}, io.Discard); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestInspect(t *testing.T) {
	_, path, data := setup(t)
	if err := run("compress", []string{path}, io.Discard); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run("inspect", []string{"-tokens", path + ".lznf"}, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"notes.txt", "literals", "matches", "<"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output is missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, string(data[:20])) {
		t.Errorf("token stream does not start with the original text")
	}
}

func TestBench(t *testing.T) {
	dir, _, _ := setup(t)
	var buf bytes.Buffer
	if err := run("bench", []string{filepath.Join(dir, "**", "*.txt")}, &buf); err != nil {
		t.Fatal(err)
	}
	for _, codec := range []string{"lznf", "snappy", "xz"} {
		if !strings.Contains(buf.String(), codec) {
			t.Errorf("bench output is missing %s:\n%s", codec, buf.String())
		}
	}

	if err := run("bench", []string{filepath.Join(dir, "*.none")}, io.Discard); err == nil {
		t.Error("bench with no matching files succeeded")
	}
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	err := run("compress", []string{filepath.Join(dir, "missing")}, io.Discard)
	if !errors.Is(err, lznf.ErrSourceNotFound) {
		t.Errorf("compress missing file: got %v", err)
	}

	notLZNF := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(notLZNF, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	err = run("decompress", []string{notLZNF}, io.Discard)
	if !errors.Is(err, lznf.ErrInvalidContainer) {
		t.Errorf("decompress plain file: got %v", err)
	}

	if err := run("frobnicate", nil, io.Discard); err == nil {
		t.Error("unknown command succeeded")
	}
	if err := run("compress", nil, io.Discard); err == nil {
		t.Error("compress without a file succeeded")
	}
}
