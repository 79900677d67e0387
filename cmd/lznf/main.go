// Command lznf compresses and decompresses single files in the LZNF format.
//
//	lznf [-v] compress <file> [-o out]
//	lznf [-v] decompress <file.lznf> [-d dir]
//	lznf [-v] inspect [-tokens] <file.lznf>
//	lznf [-v] bench <glob>...
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/andybalholm/lznf"
	"github.com/andybalholm/lznf/compare"
	"github.com/bmatcuk/doublestar/v4"
)

const usage = `usage:
  lznf [-v] compress <file> [-o out]
  lznf [-v] decompress <file.lznf> [-d dir]
  lznf [-v] inspect [-tokens] <file.lznf>
  lznf [-v] bench <glob>...
`

func main() {
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	verbose := flag.Bool("v", false, "log debug events")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Args()[1:], os.Stdout); err != nil {
		slog.Error("failed", "cmd", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "compress":
		return compressCmd(args)
	case "decompress":
		return decompressCmd(args)
	case "inspect":
		return inspectCmd(args, stdout)
	case "bench":
		return benchCmd(args, stdout)
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

// parse parses args with fs, allowing flags after the positional
// arguments, and checks that exactly n positional arguments are left.
func parse(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if n >= 0 && len(positional) != n {
		return nil, fmt.Errorf("%s: want %d argument(s), got %d", fs.Name(), n, len(positional))
	}
	return positional, nil
}

func compressCmd(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default <file>.lznf)")
	files, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	in := files[0]
	if *out == "" {
		*out = in + ".lznf"
	}

	bank, err := lznf.LoadFile(in)
	if err != nil {
		return err
	}
	compressed, err := new(lznf.Codec).CompressBank(bank, filepath.Base(in))
	if err != nil {
		return err
	}
	if err := lznf.WriteFile(*out, compressed); err != nil {
		return err
	}
	slog.Info("compress", "in", in, "out", *out, "size", bank.Len(), "compressedSize", len(compressed))
	return nil
}

func decompressCmd(args []string) error {
	fs := flag.NewFlagSet("decompress", flag.ContinueOnError)
	dir := fs.String("d", ".", "output directory")
	files, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	in := files[0]

	bank, err := lznf.LoadFile(in)
	if err != nil {
		return err
	}
	data, name, err := new(lznf.Codec).Decompress(bank.Bytes())
	if err != nil {
		return err
	}

	// Only the base name is trusted; a stored path must not escape dir.
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return fmt.Errorf("%s: unusable file name %q in header", in, name)
	}
	out := filepath.Join(*dir, base)
	if err := lznf.WriteFile(out, data); err != nil {
		return err
	}
	slog.Info("decompress", "in", in, "out", out, "size", len(data))
	return nil
}

func inspectCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	tokens := fs.Bool("tokens", false, "print the LZP token stream")
	files, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	bank, err := lznf.LoadFile(files[0])
	if err != nil {
		return err
	}
	info, err := lznf.Inspect(bank.Bytes())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", info.Header.Name)
	fmt.Fprintf(tw, "length\t%d\n", info.Header.Length)
	fmt.Fprintf(tw, "crc32\t%08x\n", info.Header.CRC)
	fmt.Fprintf(tw, "data offset\t%d\n", info.Header.DataOffset)
	fmt.Fprintf(tw, "compressed\t%d\n", info.CompressedSize)
	fmt.Fprintf(tw, "ratio\t%.3f\n", info.Ratio())
	for _, b := range []struct {
		name string
		info lznf.BlockInfo
	}{
		{"literals", info.Literals},
		{"matches", info.Matches},
	} {
		fmt.Fprintf(tw, "%s\ttree %d bytes\tdata %d bytes\t%d symbols\n", b.name, b.info.TreeBytes, b.info.DataBytes, b.info.Symbols)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *tokens {
		text, err := lznf.Tokens(nil, bank.Bytes())
		if err != nil {
			return err
		}
		if _, err := stdout.Write(append(text, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func benchCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	patterns, err := parse(fs, args, -1)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return fmt.Errorf("bench: no patterns")
	}

	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("bench: %q: %w", p, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("bench: no files match %q", patterns)
	}

	tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "file\tcodec\tsize\tcompressed\tratio\tcompress\tdecompress\t")
	for _, f := range files {
		bank, err := lznf.LoadFile(f)
		if err != nil {
			return err
		}
		results, err := compare.Run(bank.Bytes(), compare.Default())
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\t%v\t%v\t\n",
				f, r.Codec, r.Size, r.CompressedSize, r.Ratio(), r.CompressTime, r.DecompressTime)
		}

		models, err := compare.Literals(bank.Bytes())
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		for _, m := range models {
			slog.Debug("literalModel", "file", f, "model", m.Name, "size", m.Size)
		}
	}
	return tw.Flush()
}
