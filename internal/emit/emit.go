// Package emit streams input sources to an output writer, applying the
// configured line numbering policy.
package emit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"github.com/eykd/catr-go/internal/config"
)

// Opener resolves an input identifier to a readable stream.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ReadError reports a failure while draining a source that opened fine.
type ReadError struct {
	Source string
	Err    error
}

// Error returns the formatted error string with the source name.
func (e *ReadError) Error() string {
	return "read: " + e.Source + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Emitter writes the lines of each configured source to Out. Open failures
// are reported on Err and skipped.
type Emitter struct {
	Out    io.Writer
	Err    io.Writer
	Opener Opener
	Logger *slog.Logger
}

// Run processes cfg.Files in order. It returns nil when every source was
// either emitted or skipped because it could not be opened. A read error
// stops the run.
func (e *Emitter) Run(ctx context.Context, cfg config.Config) error {
	log := e.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	mode := cfg.Mode()
	w := bufio.NewWriter(e.Out)

	for _, name := range cfg.Files {
		if err := ctx.Err(); err != nil {
			return errors.Join(err, w.Flush())
		}

		rc, err := e.Opener.Open(ctx, name)
		if err != nil {
			if ferr := w.Flush(); ferr != nil {
				return ferr
			}
			fmt.Fprintf(e.Err, "%s: %s\n", name, Describe(err))
			log.Debug("source skipped", "source", name, "error", err)
			continue
		}
		log.Debug("source opened", "source", name, "mode", mode)

		n, err := emitLines(w, rc, mode)
		if cerr := rc.Close(); cerr != nil {
			log.Debug("source close failed", "source", name, "error", cerr)
		}
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
		if err != nil {
			return &ReadError{Source: name, Err: err}
		}
		log.Debug("source done", "source", name, "lines", n)
	}
	return nil
}

// emitLines copies r to w line by line and returns the number of lines read.
// Both numbering counters start over for every call.
func emitLines(w *bufio.Writer, r io.Reader, mode config.Mode) (int, error) {
	lr := newLineReader(r)
	lineNum, nonblank := 0, 0
	for {
		line, err := lr.next()
		if errors.Is(err, io.EOF) {
			return lineNum, nil
		}
		if err != nil {
			return lineNum, err
		}
		lineNum++

		switch {
		case mode == config.ModeNumberAll:
			_, err = fmt.Fprintf(w, "%6d\t%s\n", lineNum, line)
		case mode == config.ModeNumberNonblank && line != "":
			nonblank++
			_, err = fmt.Fprintf(w, "%6d\t%s\n", nonblank, line)
		default:
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return lineNum, err
		}
	}
}

// Describe renders an open failure the way the platform reports it,
// including the errno when there is one.
func Describe(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return fmt.Sprintf("%s (os error %d)", errno.Error(), int(errno))
	}
	return err.Error()
}
