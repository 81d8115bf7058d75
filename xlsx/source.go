// Package xlsx reads spreadsheet assets (Office Open XML workbooks) as
// nested rows for text extraction.
package xlsx

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/searchtext"
)

// Ensure Source implements searchtext.SpreadsheetSource at compile time.
var _ searchtext.SpreadsheetSource = (*Source)(nil)

// Source reads spreadsheet assets from a directory.
type Source struct {
	root string
}

// NewSource creates a Source resolving asset refs relative to root.
func NewSource(root string) *Source {
	return &Source{root: root}
}

// RowsFromAsset returns the asset's sheets, each a list of rows, each a
// list of non-empty cell values.
func (s *Source) RowsFromAsset(ctx context.Context, asset searchtext.AssetRef) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.FromSlash(string(asset))
	if !filepath.IsLocal(name) {
		return nil, searchtext.Errorf(searchtext.EINVALID, "asset %q is outside the asset root", asset)
	}

	f, err := os.Open(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, searchtext.Errorf(searchtext.ENOTFOUND, "asset %q not found", asset)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return ReadRows(f, info.Size())
}

// ReadRows parses a workbook and returns its sheets in workbook order.
func ReadRows(r io.ReaderAt, size int64) ([]any, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, searchtext.Errorf(searchtext.EINVALID, "opening ZIP archive: %v", err)
	}

	wb := &workbook{zip: zr, rels: make(map[string]string)}

	workbookDoc, err := wb.readXML("xl/workbook.xml")
	if err != nil {
		return nil, searchtext.Errorf(searchtext.EINVALID, "missing workbook: %v", err)
	}

	// Relationships and shared strings are optional.
	wb.parseRelationships()
	wb.parseSharedStrings()

	sheetsEl := workbookDoc.Root().SelectElement("sheets")
	if sheetsEl == nil {
		return nil, searchtext.Errorf(searchtext.EINVALID, "workbook has no sheets")
	}

	var sheets []any
	for i, sheet := range sheetsEl.SelectElements("sheet") {
		target := wb.rels[sheet.SelectAttrValue("r:id", "")]
		if target == "" {
			target = fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		}
		target = strings.TrimPrefix(target, "/")
		if !strings.HasPrefix(target, "xl/") {
			target = "xl/" + target
		}

		doc, err := wb.readXML(target)
		if err != nil {
			continue // Skip sheets we can't read
		}
		sheets = append(sheets, wb.sheetRows(doc))
	}

	return sheets, nil
}

type workbook struct {
	zip           *zip.Reader
	rels          map[string]string
	sharedStrings []string
}

// readXML reads and parses a file from the archive.
func (wb *workbook) readXML(name string) (*etree.Document, error) {
	for _, f := range wb.zip.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if doc.Root() == nil {
			return nil, fmt.Errorf("empty XML in %s", name)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

func (wb *workbook) parseRelationships() {
	doc, err := wb.readXML("xl/_rels/workbook.xml.rels")
	if err != nil {
		return
	}
	for _, rel := range doc.Root().SelectElements("Relationship") {
		wb.rels[rel.SelectAttrValue("Id", "")] = rel.SelectAttrValue("Target", "")
	}
}

func (wb *workbook) parseSharedStrings() {
	doc, err := wb.readXML("xl/sharedStrings.xml")
	if err != nil {
		return
	}
	for _, si := range doc.Root().SelectElements("si") {
		// Plain strings have one <t>; rich text splits it across runs.
		var text strings.Builder
		for _, t := range si.FindElements(".//t") {
			text.WriteString(t.Text())
		}
		wb.sharedStrings = append(wb.sharedStrings, text.String())
	}
}

func (wb *workbook) sheetRows(doc *etree.Document) []any {
	data := doc.Root().SelectElement("sheetData")
	if data == nil {
		return []any{}
	}

	rows := []any{}
	for _, row := range data.SelectElements("row") {
		cells := []any{}
		for _, c := range row.SelectElements("c") {
			if v := wb.cellValue(c); v != "" {
				cells = append(cells, v)
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

func (wb *workbook) cellValue(c *etree.Element) string {
	v := ""
	if el := c.SelectElement("v"); el != nil {
		v = el.Text()
	}

	switch c.SelectAttrValue("t", "") {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || idx < 0 || idx >= len(wb.sharedStrings) {
			return ""
		}
		return wb.sharedStrings[idx]
	case "b":
		if v == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "inlineStr":
		var text strings.Builder
		if is := c.SelectElement("is"); is != nil {
			for _, t := range is.FindElements(".//t") {
				text.WriteString(t.Text())
			}
		}
		return text.String()
	default:
		return v
	}
}
