// Program jnav is an interactive terminal viewer for JSON values. It reads
// one or more concatenated JSON values from a file or from standard input and
// presents them as a navigable, collapsible tree.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/klauspost/compress/gzip"
	"github.com/mattn/go-isatty"

	"github.com/jnav-dev/jnav/internal/ui"
	"github.com/jnav-dev/jnav/record"
)

// version is stamped by the release build.
var version = "dev"

type cli struct {
	File string `arg:"" optional:"" type:"existingfile" help:"JSON file to view (\".gz\" is decompressed); reads stdin when omitted."`

	Depth   int  `short:"d" default:"2" help:"Collapse containers deeper than this many levels; 0 expands everything."`
	Record  int  `short:"r" default:"1" help:"1-based index of the record shown first."`
	Relaxed bool `help:"Tolerate comments and trailing commas in the input."`

	Version kong.VersionFlag `short:"v" help:"Print the version and exit."`
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("jnav"),
		kong.Description("An interactive terminal viewer for JSON values."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	in, err := openInput(args.File)
	kctx.FatalIfErrorf(err)

	records, err := record.ReadAll(in, record.Options{Relaxed: args.Relaxed})
	in.Close()
	if err != nil {
		var perr *record.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintf(os.Stderr, "jnav: %v (offset %d)\n", perr, perr.Offset)
			os.Exit(2)
		}
		kctx.FatalIfErrorf(err)
	}

	m := ui.New(records, ui.Options{
		CollapseDepth: args.Depth,
		StartRecord:   args.Record,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	kctx.FatalIfErrorf(err)
}

// openInput opens the input stream: the named file, transparently
// decompressed when it ends in ".gz", or standard input when no file is
// named. A terminal on stdin with no file argument is an error, not a hang.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			return nil, errors.New("no input: name a file or pipe JSON on stdin")
		}
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gzipFile{zr: zr, f: f}, nil
}

// gzipFile closes both the decompressor and the underlying file.
type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}
