// Package filterlist reads filter lists line by line and yields parsed
// filter records.
package filterlist

import (
	"bufio"
	"io"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/filterkit/blockconv/rules"
)

// maxLineLength limits the size of a single filter line. Selectors in real
// lists can be long, but anything past this is garbage.
const maxLineLength = 1024 * 1024

// RuleScanner implements an interface similar to bufio.Scanner for reading
// a list of filters. Empty lines, comments, section headers, and filters the
// target format cannot express are skipped; the skips are counted by reason.
type RuleScanner struct {
	scanner *bufio.Scanner

	// currentFilter is the filter returned by the last call to Scan.
	currentFilter *rules.Filter

	// currentLine is the line number of currentFilter, starting from 1.
	currentLine int

	// line is the number of the line the scanner is currently on.
	line int

	// skipped counts dropped lines by reason.
	skipped map[string]int

	err error
}

// Skip reasons counted by the scanner.
const (
	SkipReasonUnsupported = "unsupported"
	SkipReasonSyntax      = "syntax-error"
)

// NewRuleScanner returns a scanner that reads the filter list from reader.
func NewRuleScanner(reader io.Reader) (s *RuleScanner) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(nil, maxLineLength)

	return &RuleScanner{
		scanner: scanner,
		skipped: map[string]int{},
	}
}

// Scan advances the scanner to the next filter, which will then be available
// through the Filter method. It returns false when the scan stops, either by
// reaching the end of the input or an error.
func (s *RuleScanner) Scan() bool {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		s.line++

		f, err := rules.NewFilter(line)
		if err != nil {
			if errors.Is(err, rules.ErrUnsupported) {
				s.skipped[SkipReasonUnsupported]++
			} else {
				s.skipped[SkipReasonSyntax]++
			}

			continue
		}
		if f == nil {
			continue
		}

		s.currentFilter = f
		s.currentLine = s.line

		return true
	}

	s.err = s.scanner.Err()

	return false
}

// Filter returns the most recent filter generated by a call to Scan, and the
// 1-based line number it was read from.
func (s *RuleScanner) Filter() (f *rules.Filter, line int) {
	return s.currentFilter, s.currentLine
}

// Skipped returns the per-reason counts of the lines dropped so far.
func (s *RuleScanner) Skipped() map[string]int {
	return s.skipped
}

// Err returns the first error encountered while reading the input.
func (s *RuleScanner) Err() error {
	return s.err
}
