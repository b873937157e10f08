package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ledgerwatch/log/v3"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/pikere"
	"github.com/coregx/pikere/nfa"
)

const stdinName = "(standard input)"

type grep struct {
	re     *pikere.Regex
	opts   *options
	logger log.Logger
	stats  *stats
}

// fileResult is the buffered output of one file. Files are scanned
// concurrently but printed in argument order.
type fileResult struct {
	out     bytes.Buffer
	matched bool
	err     error
}

func (g *grep) run(ctx context.Context, stdin io.Reader, stdout io.Writer) int {
	files := g.opts.files
	if len(files) == 0 {
		files = []string{"-"}
	}
	showNames := len(files) > 1
	results := make([]fileResult, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.jobs)
	for i, name := range files {
		eg.Go(func() error {
			g.scanFile(ctx, name, stdin, showNames, &results[i])
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		g.logger.Error("scan interrupted", "err", err)
		return exitError
	}

	status := exitNoMatch
	failed := false
	for i := range results {
		if _, err := stdout.Write(results[i].out.Bytes()); err != nil {
			g.logger.Error("write failed", "err", err)
			return exitError
		}
		if results[i].err != nil {
			failed = true
		}
		if results[i].matched {
			status = exitMatch
		}
	}
	if failed {
		return exitError
	}
	return status
}

func (g *grep) scanFile(ctx context.Context, name string, stdin io.Reader, showNames bool, res *fileResult) {
	start := time.Now()
	defer g.stats.scanDuration.UpdateDuration(start)

	display := name
	r := stdin
	if name == "-" {
		display = stdinName
	} else {
		f, err := os.Open(name)
		if err != nil {
			g.logger.Warn("cannot read file", "file", name, "err", err)
			g.stats.filesFailed.Inc()
			res.err = err
			return
		}
		defer f.Close()
		r = f
	}
	if !showNames {
		display = ""
	}

	count, err := g.scan(ctx, r, display, &res.out)
	res.matched = count > 0
	if err != nil {
		g.logger.Warn("scan failed", "file", name, "err", err)
		g.stats.filesFailed.Inc()
		res.err = err
	}
	if g.opts.count {
		writePrefix(&res.out, display, 0)
		fmt.Fprintln(&res.out, count)
	}
	g.logger.Debug("scanned", "file", name, "matches", count, "elapsed", time.Since(start))
}

// scan writes the matching lines of r to out and returns how many matched.
func (g *grep) scan(ctx context.Context, r io.Reader, display string, out *bytes.Buffer) (int, error) {
	maxLine := maxLineBytes(g.opts)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	count := 0
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		line := sc.Bytes()
		g.stats.linesScanned.Inc()
		g.stats.bytesScanned.Add(len(line) + 1)

		m := g.re.Exec(nfa.BytesInput(line), g.opts.mode)
		if m == nil {
			continue
		}
		count++
		g.stats.linesMatched.Inc()
		if g.opts.count {
			continue
		}
		n := 0
		if g.opts.lineNumbers {
			n = lineNo
		}
		if !g.opts.onlyMatch {
			writePrefix(out, display, n)
			out.Write(line)
			g.writeSlots(out, m)
			out.WriteByte('\n')
			continue
		}
		matches := []*pikere.Match{m}
		if g.opts.mode == pikere.ModeSearch {
			matches = g.re.FindAll(line, -1)
		}
		for _, m := range matches {
			if m.Len() == 0 && !g.opts.slots {
				continue
			}
			writePrefix(out, display, n)
			out.Write(m.Text(line))
			g.writeSlots(out, m)
			out.WriteByte('\n')
		}
	}
	return count, sc.Err()
}

func (g *grep) writeSlots(out *bytes.Buffer, m *pikere.Match) {
	if !g.opts.slots {
		return
	}
	fmt.Fprintf(out, "\t%v", m.Slots())
}

func writePrefix(out *bytes.Buffer, display string, lineNo int) {
	if display != "" {
		out.WriteString(display)
		out.WriteByte(':')
	}
	if lineNo > 0 {
		fmt.Fprintf(out, "%d:", lineNo)
	}
}

func maxLineBytes(opts *options) int {
	const limit = 1 << 30
	if b := opts.maxLine.Bytes(); b < limit {
		return int(b)
	}
	return limit
}
