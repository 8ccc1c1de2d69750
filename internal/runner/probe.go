package runner

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// verifyHTMLPage parses an HTML probe response and checks the page carries a
// non-empty <title>. The backend serves its interactive API docs this way; an
// empty or unparsable page means the service answered with something other
// than the docs UI.
func verifyHTMLPage(body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("html probe returned an empty body")
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return fmt.Errorf("html probe page has no title")
	}
	return nil
}
