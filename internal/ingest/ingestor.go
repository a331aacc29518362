// Package ingest loads raw sources from the storage root and produces
// uniform documents for the pipeline. Each source kind lives in its own
// fixed subdirectory; markdown files are discovered recursively anywhere
// under the root. A single unreadable file is logged and skipped, never
// aborting ingestion of sibling files.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/kondate/internal/extract"
	"github.com/hyperjump/kondate/internal/models"
	"go.uber.org/zap"
)

// Subdirectory names under the storage root, one per source kind.
// The directory name is the sole signal for source-kind assignment.
const (
	dirTabular = "csv"
	dirObject  = "json"
	dirOffice  = "doc"
	dirPDF     = "pdf"
)

// maxObjectTextLen caps serialized object documents. Oversized records are
// truncated with a marker rather than chunked further; full fidelity is not
// required for search text.
const maxObjectTextLen = 1500

const truncationMarker = "... [truncated]"

// Ingestor walks a storage root and yields one document per logical record.
type Ingestor struct {
	root   string
	logger *zap.Logger
	nextID int
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets a logger for skip-and-continue warnings.
func WithLogger(l *zap.Logger) Option {
	return func(in *Ingestor) { in.logger = l }
}

// NewIngestor creates an ingestor over the given storage root.
func NewIngestor(root string, opts ...Option) *Ingestor {
	in := &Ingestor{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Each walks all sources once, in a fixed order (tabular, object, office,
// pdf, markup), invoking fn for each document as it is produced. The walk
// is finite and not restartable; create a new Ingestor per run.
func (in *Ingestor) Each(fn func(*models.Document)) error {
	if _, err := os.Stat(in.root); err != nil {
		return fmt.Errorf("storage root: %w", err)
	}
	in.ingestTabular(fn)
	in.ingestObjects(fn)
	in.ingestFiles(dirOffice, models.KindOfficeText, fn)
	in.ingestFiles(dirPDF, models.KindPDFText, fn)
	in.ingestMarkup(fn)
	return nil
}

// All collects every document Each produces.
func (in *Ingestor) All() ([]*models.Document, error) {
	var docs []*models.Document
	err := in.Each(func(d *models.Document) { docs = append(docs, d) })
	return docs, err
}

func (in *Ingestor) newDocument(kind models.SourceKind, origin, text string) *models.Document {
	id := fmt.Sprintf("doc_%04d", in.nextID)
	in.nextID++
	return &models.Document{
		ID:         id,
		SourceKind: kind,
		Origin:     origin,
		Text:       text,
		Metadata:   map[string]string{"file_name": filepath.Base(origin)},
	}
}

func (in *Ingestor) skip(path string, err error) {
	in.logger.Warn("skipping unreadable source", zap.String("path", path), zap.Error(err))
}

// ingestTabular produces one document per data row of each .csv or .xlsx
// file under the tabular subdirectory. Row text is a canonical field-sorted
// "key: value" serialization, so identical rows always serialize identically.
func (in *Ingestor) ingestTabular(fn func(*models.Document)) {
	for _, path := range in.listFiles(dirTabular, ".csv", ".xlsx") {
		rows, err := readRows(path)
		if err != nil {
			in.skip(path, err)
			continue
		}
		if len(rows) < 2 {
			continue
		}
		header := rows[0]
		for _, row := range rows[1:] {
			fields := rowFields(header, row)
			doc := in.newDocument(models.KindTabular, path, serializeFields(fields))
			for _, col := range []string{"restaurant", "cuisine", "dish", "price", "discount", "code", "valid_until"} {
				if v, ok := fields[col]; ok && v != "" {
					doc.SetMeta(col, v)
				}
			}
			fn(doc)
		}
	}
}

func readRows(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return extract.ExcelRows(content)
	}
	r := csv.NewReader(strings.NewReader(extract.PlainText(content)))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func rowFields(header, row []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" || i >= len(row) {
			continue
		}
		fields[name] = strings.TrimSpace(row[i])
	}
	return fields
}

func serializeFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, fields[k])
	}
	return strings.TrimSpace(b.String())
}

// objectFields maps JSON element keys to metadata fields, in precedence
// order: when two keys feed the same field, the earlier match wins.
var objectFields = []struct{ src, dst string }{
	{"restaurant", "restaurant"},
	{"name", "restaurant"},
	{"cuisine", "cuisine"},
	{"cuisine_type", "cuisine"},
	{"dish", "dish_name"},
	{"price", "price"},
}

// ingestObjects produces one document per top-level element of each JSON
// file under the object subdirectory. A bare object counts as one element.
func (in *Ingestor) ingestObjects(fn func(*models.Document)) {
	for _, path := range in.listFiles(dirObject, ".json") {
		content, err := os.ReadFile(path)
		if err != nil {
			in.skip(path, err)
			continue
		}
		var elements []map[string]interface{}
		if err := json.Unmarshal(content, &elements); err != nil {
			var single map[string]interface{}
			if err := json.Unmarshal(content, &single); err != nil {
				in.skip(path, fmt.Errorf("parse json: %w", err))
				continue
			}
			elements = []map[string]interface{}{single}
		}
		for _, element := range elements {
			doc := in.newDocument(models.KindObject, path, objectText(element))
			for _, f := range objectFields {
				if doc.Meta(f.dst) != "" {
					continue
				}
				if v, ok := element[f.src]; ok {
					doc.SetMeta(f.dst, fmt.Sprintf("%v", v))
				}
			}
			fn(doc)
		}
	}
}

func objectText(element map[string]interface{}) string {
	data, err := json.MarshalIndent(element, "", "  ")
	if err != nil {
		return ""
	}
	text := string(data)
	if len(text) > maxObjectTextLen {
		text = text[:maxObjectTextLen] + truncationMarker
	}
	return text
}

// ingestFiles produces one document per office or PDF file. The filename
// stem seeds a restaurant metadata hint for documents whose body yields no
// name of its own.
func (in *Ingestor) ingestFiles(dir string, kind models.SourceKind, fn func(*models.Document)) {
	exts := []string{".docx"}
	if kind == models.KindPDFText {
		exts = []string{".pdf"}
	}
	for _, path := range in.listFiles(dir, exts...) {
		content, err := os.ReadFile(path)
		if err != nil {
			in.skip(path, err)
			continue
		}
		var text string
		if kind == models.KindPDFText {
			text, err = extract.PDFText(content)
		} else {
			text, err = extract.DocxText(content)
		}
		if err != nil {
			in.skip(path, err)
			continue
		}
		doc := in.newDocument(kind, path, text)
		doc.SetMeta("restaurant", FilenameHint(path))
		fn(doc)
	}
}

// ingestMarkup discovers markdown files recursively anywhere under the root.
func (in *Ingestor) ingestMarkup(fn func(*models.Document)) {
	_ = filepath.WalkDir(in.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			in.skip(path, err)
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			in.skip(path, readErr)
			return nil
		}
		fn(in.newDocument(models.KindMarkup, path, extract.PlainText(content)))
		return nil
	})
}

func (in *Ingestor) listFiles(dir string, exts ...string) []string {
	entries, err := os.ReadDir(filepath.Join(in.root, dir))
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range exts {
			if strings.EqualFold(filepath.Ext(e.Name()), ext) {
				paths = append(paths, filepath.Join(in.root, dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths
}

// FilenameHint derives a human-readable name from a file path stem:
// "marios_italian_menu.pdf" becomes "Marios Italian Menu".
func FilenameHint(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(stem, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
