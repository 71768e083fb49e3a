// Package pdf identifies papers from local PDF files.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// identifyPages is how many leading pages are scanned for identifiers.
// arXiv watermarks and DOIs appear on the first page in practice.
const identifyPages = 3

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractArxivID extracts an arXiv identifier from a PDF file, scanning
// the first few pages for arXiv watermarks or references. Returns "" if
// none is found (not an error).
func ExtractArxivID(filePath string) (string, error) {
	text, err := leadingText(filePath)
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(text, "\n") {
		for _, token := range strings.Fields(line) {
			if id := paper.ExtractArxivID(token); id != "" {
				return id, nil
			}
		}
	}
	return "", nil
}

// ExtractDOI extracts a DOI from a PDF file. Returns "" if none is found
// (not an error).
func ExtractDOI(filePath string) (string, error) {
	text, err := leadingText(filePath)
	if err != nil {
		return "", err
	}

	if doi := doiPattern.FindString(text); doi != "" {
		return strings.TrimRight(doi, ".,;"), nil
	}
	return "", nil
}

// leadingText returns the plain text of the first identifyPages pages.
func leadingText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := identifyPages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip unreadable pages
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
