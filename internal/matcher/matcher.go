// Package matcher finds keyword regex occurrences in pre-extracted PDF page
// text and attaches file-derived metadata and a context window to each one.
package matcher

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultContextChars is the context radius used when Options.ContextChars is zero.
const DefaultContextChars = 20

// NoContext as Options.ContextChars keeps only the matched text.
const NoContext = -1

// Ellipsis marks a context window truncated on that side.
const Ellipsis = "..."

// Match is a single keyword occurrence.
type Match struct {
	SourceFile string  `json:"source_file" yaml:"source_file"`
	ProjectID  *string `json:"project_id" yaml:"project_id"`
	SheetNo    *string `json:"sheet_no" yaml:"sheet_no"`
	Page       int     `json:"page" yaml:"page"`
	MatchFound string  `json:"match_found" yaml:"match_found"`
	Context    string  `json:"context" yaml:"context"`
}

// Options tunes Extract.
type Options struct {
	// FileIdentifierPattern is searched against each filename. Capture group 1
	// becomes ProjectID and group 2 becomes SheetNo. Empty disables it.
	FileIdentifierPattern string

	// ContextChars is the number of characters kept on each side of a match.
	// Zero means DefaultContextChars; NoContext or any negative value means none.
	ContextChars int

	// Timeout bounds a single regex evaluation. Zero means no limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// Extract prepares a lazy scan of corpus for keywordPattern.
// Both patterns are compiled before anything is scanned, so an invalid
// pattern fails here even for an empty corpus.
func Extract(corpus *Corpus, keywordPattern string, opts Options) (*Iterator, error) {
	keyword, err := Compile(FieldKeyword, keywordPattern)
	if err != nil {
		return nil, err
	}

	var fileID *regexp2.Regexp
	if opts.FileIdentifierPattern != "" {
		fileID, err = Compile(FieldFileIdentifier, opts.FileIdentifierPattern)
		if err != nil {
			return nil, err
		}
	}

	if opts.Timeout > 0 {
		keyword.MatchTimeout = opts.Timeout
		if fileID != nil {
			fileID.MatchTimeout = opts.Timeout
		}
	}

	contextChars := opts.ContextChars
	switch {
	case contextChars == 0:
		contextChars = DefaultContextChars
	case contextChars < 0:
		contextChars = 0
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Iterator{
		files:        corpus.Files(),
		keyword:      keyword,
		fileID:       fileID,
		contextChars: contextChars,
		logger:       logger,
	}, nil
}

// Iterator walks matches file by file, page by page, left to right.
// It is single-pass: once Next returns false it stays exhausted.
type Iterator struct {
	files        []File
	keyword      *regexp2.Regexp
	fileID       *regexp2.Regexp
	contextChars int
	logger       *slog.Logger

	// position
	fileIdx     int
	pageIdx     int
	fileStarted bool
	projectID   *string
	sheetNo     *string

	// current page
	inPage      bool
	searched    bool
	text        []rune
	pageNum     int
	last        *regexp2.Match
	pageMatches int

	cur   Match
	total int
	err   error
	done  bool
}

// Next advances to the next match. It returns false when the corpus is
// exhausted or an error stopped the scan; check Err afterwards.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	for {
		if it.inPage {
			m, err := it.advance()
			if err != nil {
				it.stop(&MatchTimeoutError{File: it.files[it.fileIdx].Name, Page: it.pageNum, Err: err})
				return false
			}
			if m != nil {
				it.cur = it.record(m)
				it.pageMatches++
				it.total++
				return true
			}
			it.endPage()
		}

		ok, err := it.nextPage()
		if err != nil {
			it.stop(err)
			return false
		}
		if !ok {
			it.logger.Info("extraction complete", "total_matches", it.total)
			it.stop(nil)
			return false
		}
	}
}

// Match returns the record produced by the last successful Next.
func (it *Iterator) Match() Match {
	return it.cur
}

// Err returns the error that stopped the scan, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Count returns how many matches have been produced so far.
func (it *Iterator) Count() int {
	return it.total
}

// All adapts the iterator to a range-over-func sequence.
// Check Err after the loop.
func (it *Iterator) All() iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for it.Next() {
			if !yield(it.Match()) {
				return
			}
		}
	}
}

func (it *Iterator) advance() (*regexp2.Match, error) {
	var (
		m   *regexp2.Match
		err error
	)
	if !it.searched {
		it.searched = true
		m, err = it.keyword.FindRunesMatch(it.text)
	} else {
		m, err = it.keyword.FindNextMatch(it.last)
	}
	if err != nil {
		return nil, err
	}
	it.last = m
	return m, nil
}

// nextPage moves to the next page, starting a new file when needed.
func (it *Iterator) nextPage() (bool, error) {
	for it.fileIdx < len(it.files) {
		f := it.files[it.fileIdx]

		if !it.fileStarted {
			it.fileStarted = true
			it.logger.Debug("processing file", "file", f.Name, "pages", len(f.Pages))
			if err := it.loadFileMetadata(f.Name); err != nil {
				return false, err
			}
		}

		if it.pageIdx < len(f.Pages) {
			p := f.Pages[it.pageIdx]
			it.pageIdx++
			it.inPage = true
			it.searched = false
			it.last = nil
			it.text = []rune(p.Text)
			it.pageNum = p.Number
			it.pageMatches = 0
			return true, nil
		}

		it.fileIdx++
		it.pageIdx = 0
		it.fileStarted = false
	}
	return false, nil
}

func (it *Iterator) endPage() {
	if it.pageMatches > 0 {
		it.logger.Debug("page matched", "file", it.files[it.fileIdx].Name, "page", it.pageNum, "matches", it.pageMatches)
	}
	it.inPage = false
	it.text = nil
	it.last = nil
}

func (it *Iterator) loadFileMetadata(name string) error {
	it.projectID, it.sheetNo = nil, nil
	if it.fileID == nil {
		return nil
	}

	m, err := it.fileID.FindStringMatch(name)
	if err != nil {
		return &MatchTimeoutError{File: name, Err: err}
	}
	if m == nil {
		return nil
	}

	it.projectID = groupValue(m, 1)
	it.sheetNo = groupValue(m, 2)
	it.logger.Debug("file metadata extracted", "file", name,
		"project_id", deref(it.projectID), "sheet_no", deref(it.sheetNo))
	return nil
}

func (it *Iterator) record(m *regexp2.Match) Match {
	start := m.Index
	end := m.Index + m.Length

	from := max(0, start-it.contextChars)
	to := min(len(it.text), end+it.contextChars)

	context := string(it.text[from:to])
	if from > 0 {
		context = Ellipsis + context
	}
	if to < len(it.text) {
		context += Ellipsis
	}

	return Match{
		SourceFile: it.files[it.fileIdx].Name,
		ProjectID:  it.projectID,
		SheetNo:    it.sheetNo,
		Page:       it.pageNum,
		MatchFound: m.String(),
		Context:    context,
	}
}

func (it *Iterator) stop(err error) {
	it.err = err
	it.done = true
	it.inPage = false
	it.text = nil
	it.last = nil
}

// groupValue returns capture group n, or nil when the pattern has no such
// group or the group did not participate in the match.
func groupValue(m *regexp2.Match, n int) *string {
	g := m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return nil
	}
	v := g.String()
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Collect drains it, keeping at most limit records (all when limit < 0)
// while still counting every match. It stops early with ctx.Err() once
// ctx is done.
func Collect(ctx context.Context, it *Iterator, limit int) ([]Match, int, error) {
	var kept []Match
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, it.Count(), err
		}
		if limit < 0 || len(kept) < limit {
			kept = append(kept, it.Match())
		}
	}
	if kept == nil {
		kept = []Match{}
	}
	return kept, it.Count(), it.Err()
}
