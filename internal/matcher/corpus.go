package matcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Page is the pre-extracted text of a single PDF page.
type Page struct {
	Number int
	Text   string
}

// File is one source document and its pages, in iteration order.
type File struct {
	Name  string
	Pages []Page
}

// Corpus maps filenames to per-page text.
// Files and pages are kept in insertion order, which is the order
// Extract walks them.
type Corpus struct {
	files []File
	index map[string]int
}

// Add appends a file with its pages.
// File names must be unique within the corpus and page numbers positive
// and unique within the file.
func (c *Corpus) Add(name string, pages ...Page) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, ok := c.index[name]; ok {
		return fmt.Errorf("duplicate file %q", name)
	}

	seen := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		if p.Number < 1 {
			return fmt.Errorf("file %q: page number must be positive, got %d", name, p.Number)
		}
		if _, ok := seen[p.Number]; ok {
			return fmt.Errorf("file %q: duplicate page %d", name, p.Number)
		}
		seen[p.Number] = struct{}{}
	}

	c.index[name] = len(c.files)
	c.files = append(c.files, File{Name: name, Pages: append([]Page(nil), pages...)})
	return nil
}

// Files returns the files in iteration order.
func (c *Corpus) Files() []File {
	if c == nil {
		return nil
	}
	return c.files
}

// Len returns the number of files.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.files)
}

// PageCount returns the total number of pages across all files.
func (c *Corpus) PageCount() int {
	n := 0
	for _, f := range c.Files() {
		n += len(f.Pages)
	}
	return n
}

// MarshalJSON encodes the corpus as {"file": {"page": "text"}} keeping order.
func (c Corpus) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range c.files {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(":{")
		for j, p := range f.Pages {
			if j > 0 {
				buf.WriteByte(',')
			}
			text, err := json.Marshal(p.Text)
			if err != nil {
				return nil, err
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(p.Number)))
			buf.WriteByte(':')
			buf.Write(text)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes {"file": {"page": "text"}} preserving the document
// order of files and pages. Page keys must be positive integers.
func (c *Corpus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Corpus{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("text content: %w", err)
	}

	var out Corpus
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("text content: %w", err)
		}
		name, _ := tok.(string)

		pages, err := decodePages(dec)
		if err != nil {
			return fmt.Errorf("text content for %q: %w", name, err)
		}
		if err := out.Add(name, pages...); err != nil {
			return fmt.Errorf("text content: %w", err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("text content: %w", err)
	}

	*c = out
	return nil
}

func decodePages(dec *json.Decoder) ([]Page, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var pages []Page
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("page key %q is not an integer", key)
		}

		var text string
		if err := dec.Decode(&text); err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		pages = append(pages, Page{Number: n, Text: text})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return pages, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
