package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ErrEmptyFASTA is returned when an input holds no records.
var ErrEmptyFASTA = errors.New("fasta: no records")

// record is one FASTA entry.
type record struct {
	Name string
	Seq  string
}

// readFASTA parses records from r. The record name is the first word of the
// header; sequence lines are concatenated and upper-cased.
func readFASTA(r io.Reader) ([]record, error) {
	// the alphabet is only a template; letters are not validated
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	var out []record
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("fasta: unexpected sequence type %T", sc.Seq())
		}
		out = append(out, record{
			Name: s.Name(),
			Seq:  strings.ToUpper(s.Seq.String()),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}

	if len(out) == 0 {
		return nil, ErrEmptyFASTA
	}
	return out, nil
}

// readFASTAFile reads path, or stdin for "-".
func readFASTAFile(path string) ([]record, error) {
	if path == "-" {
		return readFASTA(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readFASTA(f)
}
