package apache

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/homedash/homedash/src/internal/errors"
	"github.com/homedash/homedash/src/internal/log"
)

const (
	// DefaultParallelReads bounds concurrent file reads when no limit is configured.
	DefaultParallelReads = 4

	pieceSeparator = "\n\n"
)

// Source is a named piece of configuration text, usually an uploaded file.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads a file from disk.
type FileSource string

func (f FileSource) Name() string { return filepath.Base(string(f)) }

func (f FileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

type multipartSource struct {
	fh *multipart.FileHeader
}

// MultipartSource adapts a file from a multipart form.
func MultipartSource(fh *multipart.FileHeader) Source {
	return multipartSource{fh: fh}
}

func (m multipartSource) Name() string { return m.fh.Filename }

func (m multipartSource) Open() (io.ReadCloser, error) { return m.fh.Open() }

type textSource struct {
	name string
	text string
}

// TextSource is an in-memory Source.
func TextSource(name, text string) Source {
	return textSource{name: name, text: text}
}

func (t textSource) Name() string { return t.name }

func (t textSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(t.text)), nil
}

// FileReadError reports one source that could not be read.
type FileReadError struct {
	Name string
	Err  error
}

func (e FileReadError) Error() string {
	return e.Err.Error()
}

func (e FileReadError) Unwrap() error {
	return e.Err
}

// Accumulator collects pasted text and file contents into a single buffer for
// extraction. File contents are wrapped in start/end banners naming the file.
// Every append is separated from the previous content by a blank line.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	buf      strings.Builder
	parallel int
}

// NewAccumulator creates an empty accumulator reading at most parallel files at once.
func NewAccumulator(parallel int) *Accumulator {
	if parallel <= 0 {
		parallel = DefaultParallelReads
	}
	return &Accumulator{parallel: parallel}
}

// AppendText adds pasted text as is. Blank text is ignored.
func (a *Accumulator) AppendText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	a.appendPiece(text)
}

// AppendFiles reads all sources concurrently and appends the readable ones in
// input order, each wrapped in its banner. A source that fails to read is
// reported and does not affect the others.
func (a *Accumulator) AppendFiles(ctx context.Context, sources []Source) []FileReadError {
	if len(sources) == 0 {
		return nil
	}

	contents := make([]string, len(sources))
	failures := make([]error, len(sources))

	g := new(errgroup.Group)
	g.SetLimit(a.parallel)
	for i, src := range sources {
		g.Go(func() error {
			// Failures are collected per source, never returned.
			contents[i], failures[i] = readSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	var readErrs []FileReadError
	pieces := make([]string, 0, len(sources))
	for i, src := range sources {
		if failures[i] != nil {
			log.Warnf("Failed to read %s: %v", src.Name(), failures[i])
			readErrs = append(readErrs, FileReadError{
				Name: src.Name(),
				Err:  apperrors.NewFileReadError(src.Name(), failures[i]),
			})
			continue
		}
		pieces = append(pieces, banner(src.Name(), contents[i]))
	}

	if len(pieces) > 0 {
		a.appendPiece(strings.Join(pieces, pieceSeparator))
		log.Debugf("Appended %d of %d file(s) to the import buffer", len(pieces), len(sources))
	}
	return readErrs
}

// String returns the accumulated buffer.
func (a *Accumulator) String() string {
	return a.buf.String()
}

// Len returns the buffer length in bytes.
func (a *Accumulator) Len() int {
	return a.buf.Len()
}

// Reset empties the buffer.
func (a *Accumulator) Reset() {
	a.buf.Reset()
}

func (a *Accumulator) appendPiece(piece string) {
	if a.buf.Len() > 0 {
		a.buf.WriteString(pieceSeparator)
	}
	a.buf.WriteString(piece)
}

func banner(name, content string) string {
	return fmt.Sprintf("# --- Start of %s ---\n%s\n# --- End of %s ---", name, content, name)
}

func readSource(ctx context.Context, src Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rc, err := src.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	// Invalid byte sequences decode to the replacement character, like a text reader would.
	return strings.ToValidUTF8(string(content), "\uFFFD"), nil
}
