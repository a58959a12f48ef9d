// Package corpus reads corpus files and turns their lines into words.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-subword/internal/text"
)

// Corpus is a tokenized corpus: the word sequence of every line, in order,
// and the number of occurrences of each distinct word.
type Corpus struct {
	Lines [][]string
	Freq  map[string]int
}

// Tokenize splits each line into words and counts them.
func Tokenize(lines []string) *Corpus {
	c := &Corpus{
		Lines: make([][]string, len(lines)),
		Freq:  make(map[string]int),
	}
	for i, line := range lines {
		words := SplitWords(line)
		for _, w := range words {
			c.Freq[w]++
		}
		c.Lines[i] = words
	}
	return c
}

// SplitWords splits line on single spaces. Empty fields left by leading,
// trailing or repeated spaces are dropped; an empty line has no words.
func SplitWords(line string) []string {
	fields := strings.Split(line, " ")
	words := fields[:0]
	for _, f := range fields {
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

// NumWords returns the total number of word occurrences.
func (c *Corpus) NumWords() int {
	n := 0
	for _, words := range c.Lines {
		n += len(words)
	}
	return n
}

// ReadLines reads r line by line, normalizing each line with form. A final
// line without a terminator is kept; a trailing terminator does not produce
// an extra empty line.
func ReadLines(r io.Reader, form text.Form) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, text.NormalizeLine(line, form))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ReadFile reads the lines of the file at path.
func ReadFile(path string, form text.Form) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	lines, err := ReadLines(f, form)
	if err != nil {
		return nil, fmt.Errorf("read corpus %q: %w", path, err)
	}
	return lines, nil
}

// WriteLines writes each line followed by a newline.
func WriteLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
