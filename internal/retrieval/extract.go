package retrieval

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/net/html"
)

// ExtractText pulls plain text out of an uploaded document by content type.
// Unknown types fall back to treating the bytes as plain text.
func ExtractText(data []byte, contentType, filename string) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(contentType, "pdf") || strings.HasSuffix(name, ".pdf"):
		return extractPDFText(data)
	case strings.Contains(contentType, "html") || strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm"):
		return extractHTMLText(data)
	default:
		return string(data), nil
	}
}

func extractPDFText(data []byte) (string, error) {
	ctx, err := pdfapi.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}

	var sb strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		reader, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || reader == nil {
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			continue
		}
		text := scrapeContentText(content)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// scrapeContentText pulls the literal strings out of a PDF content stream's
// text-showing operators. It handles parenthesized literals with escapes;
// hex strings and font-encoded glyphs are skipped.
func scrapeContentText(content []byte) string {
	var sb strings.Builder
	depth := 0
	escaped := false
	for _, b := range content {
		switch {
		case escaped:
			switch b {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte(' ')
			case '(', ')', '\\':
				sb.WriteByte(b)
			}
			escaped = false
		case b == '\\' && depth > 0:
			escaped = true
		case b == '(':
			if depth > 0 {
				sb.WriteByte(b)
			}
			depth++
		case b == ')':
			depth--
			if depth > 0 {
				sb.WriteByte(b)
			} else if depth == 0 {
				sb.WriteByte(' ')
			}
		case depth > 0:
			sb.WriteByte(b)
		}
	}
	return strings.TrimSpace(sb.String())
}

func extractHTMLText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return strings.Join(parts, " "), nil
}
