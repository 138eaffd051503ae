// Package pdftext extracts plain text from PDF bytes and cleans it up for
// downstream extraction: repeated headers and footers are stripped, page
// number lines removed, and whitespace normalized.
package pdftext

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"nefera/internal/domain"
)

var (
	pageNumberRe = regexp.MustCompile(`(?i)^\s*(page\s*)?\d+\s*(/|\sof\s)\s*\d+\s*$`)
	inlineWSRe   = regexp.MustCompile(`[ \t\x{00a0}]+`)
	multiNLRe    = regexp.MustCompile(`\n{3,}`)
)

// Extract parses the PDF and returns cleaned plain text. An unreadable or
// empty document yields domain.ErrExtractionFailed.
func Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: unreadable pdf: %v", domain.ErrExtractionFailed, err)
	}

	var pages [][]string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rerr := page.GetTextByRow()
		if rerr != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var words []string
			for _, word := range row.Content {
				if t := strings.TrimSpace(word.S); t != "" {
					words = append(words, t)
				}
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
		if len(lines) > 0 {
			pages = append(pages, lines)
		}
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: no extractable text in pdf", domain.ErrExtractionFailed)
	}

	text := Cleanup(pages)
	if text == "" {
		return "", fmt.Errorf("%w: no extractable text in pdf", domain.ErrExtractionFailed)
	}
	return text, nil
}

// Cleanup assembles per-page line lists into a single normalized text block.
// A first or last line repeated on two or more pages is treated as a running
// header or footer and dropped.
func Cleanup(pages [][]string) string {
	header, headerCount := mostFrequentEdgeLine(pages, true)
	footer, footerCount := mostFrequentEdgeLine(pages, false)

	var out []string
	for _, lines := range pages {
		for idx, line := range lines {
			if idx == 0 && headerCount >= 2 && line == header {
				continue
			}
			if idx == len(lines)-1 && footerCount >= 2 && line == footer {
				continue
			}
			if pageNumberRe.MatchString(line) {
				continue
			}
			out = append(out, line)
		}
		out = append(out, "")
	}

	text := strings.Join(out, "\n")
	text = inlineWSRe.ReplaceAllString(text, " ")
	text = multiNLRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func mostFrequentEdgeLine(pages [][]string, first bool) (string, int) {
	counts := make(map[string]int)
	for _, lines := range pages {
		if len(lines) == 0 {
			continue
		}
		if first {
			counts[lines[0]]++
		} else {
			counts[lines[len(lines)-1]]++
		}
	}
	best, bestCount := "", 0
	for line, c := range counts {
		if c > bestCount || (c == bestCount && line < best) {
			best, bestCount = line, c
		}
	}
	return best, bestCount
}
