// Package ingest loads job and résumé texts and strips markup from them.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Stdin is the path that makes ReadFile read standard input.
const Stdin = "-"

var (
	ErrEmpty = errors.New("document is empty")

	htmlTag         = regexp.MustCompile(`(?i)<\s*/?\s*(p|br|li|ul|ol|div|strong|b|em|i|h[1-6]|span|html|body|table|tr|td)\b[^>]*>`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
)

// ReadFile reads a document from path, or from stdin when path is "-", and
// returns its cleaned text.
func ReadFile(path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == Stdin {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := Clean(string(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Clean converts HTML to text when markup is detected and normalizes whitespace.
func Clean(raw string) (string, error) {
	text := raw
	if LooksLikeHTML(raw) {
		var err error
		text, err = HTMLToText(raw)
		if err != nil {
			return "", err
		}
	}

	text = cleanWhitespace(text)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// LooksLikeHTML reports whether s contains common formatting tags.
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// HTMLToText renders an HTML fragment as plain text, one block per line and
// list items prefixed with a dash.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
		s.AppendHtml("\n")
	})
	doc.Find("p, div, h1, h2, h3, h4, h5, h6, ul, ol, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return cleanWhitespace(doc.Text()), nil
}

func cleanWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
