package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// wtText matches <w:t>text</w:t> including attributed forms like
// <w:t xml:space="preserve">. Paragraph boundaries become newlines so that
// section headings stay on their own lines for downstream segmentation.
var (
	wtText     = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	wParaClose = regexp.MustCompile(`</w:p>`)
)

// DocxText extracts the text nodes of a DOCX body. A DOCX is a zip holding
// word/document.xml; all <w:t> runs are concatenated, with paragraph ends
// mapped to newlines.
func DocxText(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("docx: not a zip: %w", err)
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("docx: open %s: %w", f.Name, err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("docx: read %s: %w", f.Name, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("docx: %s not found", docxDocumentPath)
	}

	body := wParaClose.ReplaceAllString(string(docXML), "</w:p>\n")
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		runs := wtText.FindAllStringSubmatch(line, -1)
		if len(runs) == 0 {
			continue
		}
		for i, r := range runs {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(r[1])
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String()), nil
}
