package arxiv

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// feed is the Atom envelope returned by the export API.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []Entry  `xml:"entry"`
}

// Entry is one paper in an arXiv Atom feed.
type Entry struct {
	IDURL     string    `xml:"id"` // e.g. http://arxiv.org/abs/2301.12345v1
	Title     string    `xml:"title"`
	Summary   string    `xml:"summary"`
	Published time.Time `xml:"published"`
	Authors   []author  `xml:"author"`
	Links     []link    `xml:"link"`

	// PrimaryCategory is the arxiv:primary_category extension element.
	PrimaryCategory category `xml:"primary_category"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type category struct {
	Term string `xml:"term,attr"`
}

// ArxivID extracts the bare arXiv identifier from the entry's ID URL,
// dropping any version suffix.
func (e *Entry) ArxivID() string {
	id := e.IDURL
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	// Strip version suffix (2301.12345v2 -> 2301.12345).
	if i := strings.LastIndexByte(id, 'v'); i > 0 {
		if _, rest := id[:i], id[i+1:]; allDigits(rest) {
			id = id[:i]
		}
	}
	return id
}

// PDFURL returns the entry's PDF link, if any.
func (e *Entry) PDFURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}

// ToPaper converts an arXiv entry into a Paper record. The internal ID is
// the arXiv ID itself, which is stable and unique.
func (e *Entry) ToPaper() paper.Paper {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, paper.CleanText(a.Name))
	}

	return paper.Paper{
		ID:        e.ArxivID(),
		ArxivID:   e.ArxivID(),
		Title:     paper.CleanText(e.Title),
		Abstract:  paper.CleanText(e.Summary),
		Authors:   authors,
		Category:  e.PrimaryCategory.Term,
		PDFURL:    e.PDFURL(),
		Published: e.Published,
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
