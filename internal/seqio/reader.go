// internal/seqio/reader.go
package seqio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"hansel/internal/dna"
)

// Format is the on-disk layout of a sequence file.
type Format int

const (
	FormatUnknown Format = iota
	FormatFASTA
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	default:
		return "unknown"
	}
}

// ErrEmptyInput is returned when a file holds no sequence records.
var ErrEmptyInput = errors.New("no sequences in input")

// Record is one parsed sequence; Seq is upper-cased.
type Record struct {
	ID     string
	Seq    []byte
	Format Format // format of the stream the record came from
}

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

// Read parses FASTA or FASTQ from r, sniffing the format from the first
// non-blank byte, and calls emit for each record. Returned records own
// their Seq slices.
//
// It is cancelable: returning promptly when ctx is Done, even mid-file.
func Read(ctx context.Context, r io.Reader, emit func(Record) error) (Format, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var first byte
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return FormatUnknown, ErrEmptyInput
		}
		if err != nil {
			return FormatUnknown, err
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			continue
		}
		first = b
		_ = br.UnreadByte()
		break
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		format Format
		n      int
		err    error
	)
	switch first {
	case '>':
		format = FormatFASTA
		n, err = readFASTA(ctx, sc, emit)
	case '@':
		format = FormatFASTQ
		n, err = readFASTQ(ctx, sc, emit)
	default:
		return FormatUnknown, fmt.Errorf("unrecognised sequence format (first byte %q)", first)
	}
	if err != nil {
		return format, err
	}
	if n == 0 {
		return format, ErrEmptyInput
	}
	return format, nil
}

// ReadFile opens path (gzip and "-" aware) and streams its records.
func ReadFile(ctx context.Context, path string, emit func(Record) error) (Format, error) {
	rc, err := Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer func() { _ = rc.Close() }()
	f, err := Read(ctx, rc, emit)
	if err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func readFASTA(ctx context.Context, sc *bufio.Scanner, emit func(Record) error) (int, error) {
	var (
		id    string
		seq   = make([]byte, 0, 1<<16)
		have  bool
		count int
	)
	flush := func() error {
		if !have {
			return nil
		}
		count++
		return emit(Record{ID: id, Seq: dna.Normalize(append([]byte(nil), seq...)), Format: FormatFASTA})
	}
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return count, err
			}
			id = parseHeaderID(line[1:])
			seq = seq[:0]
			have = true
			continue
		}
		if !have {
			return count, errors.New("fasta: sequence data before first header")
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return count, fmt.Errorf("fasta scan: %w", err)
	}
	return count, flush()
}

func readFASTQ(ctx context.Context, sc *bufio.Scanner, emit func(Record) error) (int, error) {
	count := 0
	ln := 0
	// line returns the next line verbatim; a zero-length read has empty
	// sequence and quality lines.
	line := func() ([]byte, bool) {
		if !sc.Scan() {
			return nil, false
		}
		ln++
		return bytes.TrimRight(sc.Bytes(), "\r"), true
	}
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}
		// blank lines are only skipped between records
		hdr, ok := line()
		for ok && len(hdr) == 0 {
			hdr, ok = line()
		}
		if !ok {
			break
		}
		if hdr[0] != '@' {
			return count, fmt.Errorf("fastq:%d: expected '@' header", ln)
		}
		id := parseHeaderID(hdr[1:])
		seq, ok := line()
		if !ok {
			return count, fmt.Errorf("fastq:%d: truncated record %q", ln, id)
		}
		seq = append([]byte(nil), seq...)
		plus, ok := line()
		if !ok || len(plus) == 0 || plus[0] != '+' {
			return count, fmt.Errorf("fastq:%d: expected '+' separator", ln)
		}
		if _, ok := line(); !ok && len(seq) > 0 {
			return count, fmt.Errorf("fastq:%d: missing quality line", ln)
		}
		count++
		if err := emit(Record{ID: id, Seq: dna.Normalize(seq), Format: FormatFASTQ}); err != nil {
			return count, err
		}
	}
	if err := sc.Err(); err != nil {
		return count, fmt.Errorf("fastq scan: %w", err)
	}
	return count, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
