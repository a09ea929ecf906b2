// Package source resolves input identifiers to readable byte streams:
// "-" selects standard input, anything else names a file.
package source

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/eykd/catr-go/internal/config"
	"github.com/eykd/catr-go/internal/ctxlog"
	"github.com/eykd/catr-go/internal/lock"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned by reads of a source holding invalid UTF-8.
var ErrInvalidUTF8 = encoding.ErrInvalidUTF8

// OS opens sources from the process environment.
type OS struct {
	// Stdin backs the "-" identifier.
	Stdin io.Reader

	// Lock takes a shared advisory lock on each file for as long as it is open.
	Lock bool
}

// Open resolves name to a readable stream. The returned stream fails with
// ErrInvalidUTF8 once it reaches bytes that are not valid UTF-8. Closing a
// stdin stream leaves Stdin open.
func (o *OS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	log := ctxlog.FromContext(ctx)

	if name == config.StdinName {
		return &stream{r: validate(o.Stdin)}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
	}

	s := &stream{r: validate(f), closers: []func() error{f.Close}}
	if !o.Lock {
		return s, nil
	}

	l := lock.NewFromPath(name)
	if err := l.TryRLock(ctx); err != nil {
		f.Close()
		return nil, err
	}
	log.Debug("shared lock acquired", "source", name)
	s.closers = append([]func() error{l.Unlock}, s.closers...)
	return s, nil
}

func validate(r io.Reader) io.Reader {
	return transform.NewReader(r, encoding.UTF8Validator)
}

type stream struct {
	r       io.Reader
	closers []func() error
}

func (s *stream) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Close runs every closer and joins their errors.
func (s *stream) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	s.closers = nil
	return errors.Join(errs...)
}
