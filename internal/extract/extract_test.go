package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docxDocumentPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDocxText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p w:rsidR="0"><w:r><w:t>Allergen</w:t></w:r><w:r><w:t xml:space="preserve">Guidelines</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Peanuts are severe.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	got, err := DocxText(buildDocx(t, xml))
	if err != nil {
		t.Fatalf("DocxText: %v", err)
	}
	if !strings.Contains(got, "Allergen Guidelines") {
		t.Errorf("runs not joined with space: %q", got)
	}
	if !strings.Contains(got, "\nPeanuts are severe.") {
		t.Errorf("paragraphs not separated by newline: %q", got)
	}
}

func TestDocxTextNotZip(t *testing.T) {
	if _, err := DocxText([]byte("plain text, not a zip")); err == nil {
		t.Error("expected error for non-zip content")
	}
}

func TestExcelRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"restaurant", "discount"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"Luigi's", "20%"})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	rows, err := ExcelRows(buf.Bytes())
	if err != nil {
		t.Fatalf("ExcelRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "restaurant" || rows[1][0] != "Luigi's" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText([]byte("menu")); got != "menu" {
		t.Errorf("PlainText = %q", got)
	}
	if got := PlainText([]byte{0xff, 0xfe, 'a'}); !strings.Contains(got, "a") {
		t.Errorf("invalid UTF-8 not sanitized: %q", got)
	}
}
