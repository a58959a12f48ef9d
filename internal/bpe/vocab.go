package bpe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedVocabEntry classifies vocab lines that are not exactly two
// space-separated symbols.
var ErrMalformedVocabEntry = errors.New("malformed vocab entry")

// MalformedVocabEntryError reports the offending line of a vocab file.
type MalformedVocabEntryError struct {
	Line int // 1-based
	Text string
}

func (e *MalformedVocabEntryError) Error() string {
	return fmt.Sprintf("%v at line %d: %q (want \"<first> <second>\")", ErrMalformedVocabEntry, e.Line, e.Text)
}

func (e *MalformedVocabEntryError) Unwrap() error { return ErrMalformedVocabEntry }

// ParsePair parses a single "<first> <second>" entry.
func ParsePair(s string) (Pair, bool) {
	first, second, ok := strings.Cut(s, " ")
	if !ok || first == "" || second == "" || strings.Contains(second, " ") {
		return Pair{}, false
	}
	return Pair{First: first, Second: second}, true
}

// ReadVocab reads a merge list in file order. Blank lines are skipped. The
// whole input is validated before returning, so a malformed entry never
// yields a partial list.
func ReadVocab(r io.Reader) ([]Pair, error) {
	var merges []Pair
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read vocab: %w", err)
		}
		if line == "" && err != nil {
			break
		}

		entry := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		// A blank line is skipped; it does not end the merge list.
		if entry != "" {
			p, ok := ParsePair(entry)
			if !ok {
				return nil, &MalformedVocabEntryError{Line: lineNo, Text: entry}
			}
			merges = append(merges, p)
		}

		if err != nil {
			break
		}
	}
	return merges, nil
}

// ReadVocabFile reads a merge list from path.
func ReadVocabFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	merges, err := ReadVocab(f)
	if err != nil {
		return nil, fmt.Errorf("vocab %q: %w", path, err)
	}
	return merges, nil
}

// WriteVocab writes merges one per line in order.
func WriteVocab(w io.Writer, merges []Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range merges {
		if _, err := bw.WriteString(p.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
