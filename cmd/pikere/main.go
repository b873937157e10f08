// The pikere command searches files for lines matching a pattern.
//
// Usage:
//
//	pikere [flags] PATTERN [FILE...]
//	pikere -gen -pkg P -name N PATTERN
//	pikere -repl
//
// With no files it reads standard input. With no arguments on a terminal it
// starts an interactive loop. The exit status is 0 if a line matched, 1 if
// none did and 2 on error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/c2h5oh/datasize"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/term"

	"github.com/coregx/pikere"
	"github.com/coregx/pikere/codegen"
	"github.com/coregx/pikere/syntax"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

type options struct {
	mode        pikere.Mode
	onlyMatch   bool
	count       bool
	slots       bool
	lineNumbers bool
	jobs        int
	maxLine     datasize.ByteSize
	stats       bool
	ast         bool
	dis         bool
	noPrefilter bool
	backtrack   bool
	logLevel    string

	gen     bool
	pkg     string
	name    string
	repl    bool
	pattern string
	files   []string
}

// errUsage marks errors already reported together with the usage text.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, "pikere:", err)
		}
		return exitError
	}

	lvl, err := log.LvlFromString(opts.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, "pikere:", err)
		return exitError
	}
	logger := log.New("cmd", "pikere")
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(stderr, log.LogfmtFormat())))

	if opts.repl || (opts.pattern == "" && isTerminal(stdin)) {
		return runREPL(stdin, stdout, stderr, opts, logger)
	}
	if opts.pattern == "" {
		fmt.Fprintln(stderr, "pikere: missing pattern")
		return exitError
	}

	if opts.gen {
		src, err := codegen.Generate(codegen.Config{Package: opts.pkg, Name: opts.name, Pattern: opts.pattern})
		if err != nil {
			fmt.Fprintln(stderr, "pikere:", err)
			return exitError
		}
		if _, err := stdout.Write(src); err != nil {
			return exitError
		}
		return exitMatch
	}

	re, err := pikere.CompileWithConfig(opts.pattern, opts.config())
	if err != nil {
		fmt.Fprintln(stderr, "pikere:", err)
		return exitError
	}
	logger.Debug("compiled", "pattern", opts.pattern, "insts", re.Program().Len(),
		"slots", re.NumSlots(), "prefilter", re.Prefilter())

	if opts.ast || opts.dis {
		if opts.ast {
			root, err := syntax.Parse(opts.pattern)
			if err != nil {
				fmt.Fprintln(stderr, "pikere:", err)
				return exitError
			}
			fmt.Fprintln(stdout, root)
		}
		if opts.dis {
			fmt.Fprint(stdout, re.Program())
		}
		return exitMatch
	}

	g := &grep{
		re:     re,
		opts:   opts,
		logger: logger,
		stats:  newStats(),
	}
	status := g.run(ctx, stdin, stdout)
	if opts.stats {
		g.stats.write(stderr)
	}
	return status
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{maxLine: datasize.MB}
	fs := flag.NewFlagSet("pikere", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pikere [flags] PATTERN [FILE...]")
		fs.PrintDefaults()
	}

	mode := fs.String("mode", "search", "match `mode`: search, prefix or full")
	fs.BoolVar(&opts.onlyMatch, "o", false, "print only the matched text")
	fs.BoolVar(&opts.count, "c", false, "print the number of matching lines per file")
	fs.BoolVar(&opts.slots, "slots", false, "print capture slot values after each line")
	fs.BoolVar(&opts.lineNumbers, "n", false, "prefix lines with their line number")
	fs.IntVar(&opts.jobs, "j", 4, "scan up to `N` files concurrently")
	fs.TextVar(&opts.maxLine, "max-line", datasize.MB, "longest accepted line, e.g. 64KB")
	fs.BoolVar(&opts.stats, "stats", false, "write scan metrics to stderr")
	fs.BoolVar(&opts.ast, "ast", false, "print the parsed pattern and exit")
	fs.BoolVar(&opts.dis, "dis", false, "print the compiled program and exit")
	fs.BoolVar(&opts.noPrefilter, "no-prefilter", false, "disable literal prefiltering")
	fs.BoolVar(&opts.backtrack, "backtrack", false, "use the bounded backtracker for lines that fit its budget")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log `level`: trace, debug, info, warn, error or crit")
	fs.BoolVar(&opts.gen, "gen", false, "write Go source embedding the compiled pattern")
	fs.StringVar(&opts.pkg, "pkg", "main", "package of the generated source")
	fs.StringVar(&opts.name, "name", "Pattern", "variable name in the generated source")
	fs.BoolVar(&opts.repl, "repl", false, "start an interactive loop")

	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	m, err := parseMode(*mode)
	if err != nil {
		return nil, err
	}
	opts.mode = m
	if opts.jobs < 1 {
		return nil, fmt.Errorf("-j must be positive, got %d", opts.jobs)
	}
	if opts.maxLine < datasize.B {
		return nil, errors.New("-max-line must be at least one byte")
	}
	if fs.NArg() > 0 {
		opts.pattern = fs.Arg(0)
		opts.files = fs.Args()[1:]
	}
	return opts, nil
}

func (o *options) config() pikere.Config {
	config := pikere.DefaultConfig()
	config.EnablePrefilter = !o.noPrefilter
	config.EnableBacktracker = o.backtrack
	return config
}

func parseMode(s string) (pikere.Mode, error) {
	switch s {
	case "search":
		return pikere.ModeSearch, nil
	case "prefix":
		return pikere.ModePrefix, nil
	case "full":
		return pikere.ModeFull, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
