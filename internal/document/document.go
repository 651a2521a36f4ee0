package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Document is a parsed bulletin page
type Document struct {
	doc *goquery.Document
}

// Open parses the HTML file at path
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse parses a page, converting it to UTF-8 first
func Parse(r io.Reader) (*Document, error) {
	utf8Reader, err := charset.NewReader(r, "text/html")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return &Document{doc: doc}, nil
}

// Title returns the page title
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// Tables returns every table element in document order
func (d *Document) Tables() []*Table {
	tables := make([]*Table, 0)
	d.doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		tables = append(tables, &Table{sel: sel, index: i})
	})
	return tables
}

// Table is one table element of a page
type Table struct {
	sel   *goquery.Selection
	index int
}

// Index is the position of the table within its document
func (t *Table) Index() int {
	return t.index
}

// Rows returns the text of every th/td cell, row by row
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0)
	t.sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := make([]string, 0)
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		rows = append(rows, cells)
	})
	return rows
}

// SectionHeading returns the text of the section block preceding the one that
// contains the table. Pages without section blocks fall back to the nearest
// preceding h1-h6 sibling of the table.
func (t *Table) SectionHeading() (string, bool) {
	if container := t.sel.Closest("div.section"); container.Length() > 0 {
		if heading := prevSibling(container, func(s *goquery.Selection) bool {
			return goquery.NodeName(s) == "div" && s.HasClass("section")
		}); heading != nil {
			return heading.Text(), true
		}
		return "", false
	}

	if heading := prevSibling(t.sel, func(s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			return true
		}
		return false
	}); heading != nil {
		return heading.Text(), true
	}
	return "", false
}

// PrecedingParagraph returns the text of the nearest p element before the
// table among its siblings
func (t *Table) PrecedingParagraph() (string, bool) {
	p := prevSibling(t.sel, func(s *goquery.Selection) bool {
		return goquery.NodeName(s) == "p"
	})
	if p == nil {
		return "", false
	}
	return p.Text(), true
}

// prevSibling walks the element siblings before sel, nearest first
func prevSibling(sel *goquery.Selection, match func(*goquery.Selection) bool) *goquery.Selection {
	for s := sel.Prev(); s.Length() > 0; s = s.Prev() {
		if match(s) {
			return s
		}
	}
	return nil
}
