package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ledgerwatch/log/v3"

	"github.com/coregx/pikere"
	"github.com/coregx/pikere/nfa"
	"github.com/coregx/pikere/syntax"
)

const replHelp = `/PATTERN    compile PATTERN
:mode MODE  match mode: search, prefix or full
:ast        show the parsed pattern
:dis        show the compiled program
:help       show this text
:quit       leave
anything else is matched against the current pattern`

// lineReader is the part of *readline.Instance the loop needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// scannerReader reads plain lines when stdin is not a terminal.
type scannerReader struct {
	sc *bufio.Scanner
}

func (r *scannerReader) Readline() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r *scannerReader) SetPrompt(string) {}

func (r *scannerReader) Close() error { return nil }

func newLineReader(stdin io.Reader) (lineReader, error) {
	if !isTerminal(stdin) {
		return &scannerReader{sc: bufio.NewScanner(stdin)}, nil
	}
	rl, err := readline.New("> ")
	if err != nil {
		return nil, err
	}
	return rl, nil
}

type repl struct {
	out    io.Writer
	logger log.Logger
	cache  *pikere.Cache
	mode   pikere.Mode
	re     *pikere.Regex
}

func runREPL(stdin io.Reader, stdout, stderr io.Writer, opts *options, logger log.Logger) int {
	cache, err := pikere.NewCache(64, opts.config())
	if err != nil {
		fmt.Fprintln(stderr, "pikere:", err)
		return exitError
	}
	rl, err := newLineReader(stdin)
	if err != nil {
		fmt.Fprintln(stderr, "pikere:", err)
		return exitError
	}
	defer rl.Close()

	r := &repl{out: stdout, logger: logger, cache: cache, mode: opts.mode}
	if opts.pattern != "" {
		r.compile(opts.pattern)
	}
	for {
		rl.SetPrompt(r.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		if !r.eval(line) {
			break
		}
	}
	return exitMatch
}

func (r *repl) prompt() string {
	if r.re == nil {
		return "> "
	}
	return r.re.String() + "> "
}

// eval handles one input line and reports whether to keep going.
func (r *repl) eval(line string) bool {
	switch {
	case strings.HasPrefix(line, "/"):
		r.compile(line[1:])
	case line == ":quit":
		return false
	case line == ":help":
		fmt.Fprintln(r.out, replHelp)
	case strings.HasPrefix(line, ":mode"):
		mode, err := parseMode(strings.TrimSpace(strings.TrimPrefix(line, ":mode")))
		if err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		r.mode = mode
		fmt.Fprintln(r.out, "mode", mode)
	case line == ":ast":
		if r.re == nil {
			fmt.Fprintln(r.out, "no pattern")
			break
		}
		root, err := syntax.Parse(r.re.String())
		if err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		fmt.Fprintln(r.out, root)
	case line == ":dis":
		if r.re == nil {
			fmt.Fprintln(r.out, "no pattern")
			break
		}
		fmt.Fprint(r.out, r.re.Program())
	default:
		r.match(line)
	}
	return true
}

func (r *repl) compile(pattern string) {
	re, err := r.cache.Compile(pattern)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	r.re = re
	r.logger.Debug("compiled", "pattern", pattern, "insts", re.Program().Len(), "prefilter", re.Prefilter())
}

func (r *repl) match(line string) {
	if r.re == nil {
		fmt.Fprintln(r.out, "no pattern; enter /PATTERN first")
		return
	}
	m := r.re.Exec(nfa.StringInput(line), r.mode)
	if m == nil {
		fmt.Fprintln(r.out, "no match")
		return
	}
	fmt.Fprintf(r.out, "%v %q\n", m, m.TextString(line))
}
