// Package seqio decodes FASTA-formatted sequence input, transparently
// unwrapping gzip or lz4 compression by file extension. It is an external
// collaborator of the core: spec.md names "FASTA/GZIP input decoding" as
// out of scope for the Ukkonen engine and TwoKeyMap, so this package
// produces plain byte sequences and hands them to pkg/sufftree.Tree.Append
// without the core ever knowing where they came from.
package seqio

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// ErrEmptyRecord is reported (via the caller's handling of Scanner.Header
// and Scanner.Sequence, not returned directly) when a FASTA record has a
// header but no sequence lines before the next header or EOF.
var ErrEmptyRecord = errors.New("seqio: FASTA record has no sequence data")

// Open opens path for reading, transparently unwrapping gzip (".gz") or
// lz4 (".lz4") compression based on its suffix. The returned ReadCloser's
// Close also closes the underlying file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied CLI path.
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			_ = f.Close()

			return nil, fmt.Errorf("open gzip %s: %w", path, gzErr)
		}

		return &wrappedReader{Reader: gz, closer: f}, nil
	case strings.HasSuffix(path, ".lz4"):
		return &wrappedReader{Reader: lz4.NewReader(f), closer: f}, nil
	default:
		return f, nil
	}
}

// wrappedReader pairs a decompressing io.Reader with the underlying file
// so Close releases both, regardless of whether the decompressor itself
// implements io.Closer.
type wrappedReader struct {
	io.Reader
	closer io.Closer
}

func (w *wrappedReader) Close() error {
	return w.closer.Close()
}

// Scanner iterates the records of a FASTA stream, one header + sequence
// pair per [Scanner.Next]. It does not hold the whole file in memory at
// once beyond the current record's sequence.
type Scanner struct {
	lines   *bufio.Scanner
	header  string
	seq     []byte
	pending string // a header line read while accumulating the previous record's sequence.
	err     error
	done    bool
}

// NewScanner wraps r in a line-oriented FASTA [Scanner]. Lines are buffered
// with a 64 KiB initial buffer that grows up to a 1 MiB maximum line length;
// a longer line stops the scan with an error reported by [Scanner.Err].
func NewScanner(r io.Reader) *Scanner {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 1<<20)

	return &Scanner{lines: lines}
}

// Next advances to the next record, returning false once the stream is
// exhausted or an error occurred (check [Scanner.Err]).
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	s.header = ""
	s.seq = s.seq[:0]

	if s.pending != "" {
		s.header = s.pending
		s.pending = ""
	}

	for s.lines.Scan() {
		line := strings.TrimRight(s.lines.Text(), "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			if s.header == "" {
				s.header = strings.TrimPrefix(line, ">")

				continue
			}

			s.pending = strings.TrimPrefix(line, ">")

			return true
		}

		s.seq = append(s.seq, line...)
	}

	if err := s.lines.Err(); err != nil {
		s.err = fmt.Errorf("scan FASTA stream: %w", err)
		s.done = true

		return false
	}

	s.done = true

	return s.header != ""
}

// Header returns the current record's header line (without the leading
// '>'), valid after a true return from [Scanner.Next].
func (s *Scanner) Header() string { return s.header }

// Sequence returns the current record's concatenated sequence bytes,
// valid after a true return from [Scanner.Next]. The slice is reused by
// the next call to Next and must be copied if retained.
func (s *Scanner) Sequence() []byte { return s.seq }

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error { return s.err }
