// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NamedStyleType identifies a paragraph's named style.
// Per prd003-markdown-conversion R2.1: the conversion engine maps these to
// Markdown heading prefixes and back.
type NamedStyleType string

const (
	StyleNormalText NamedStyleType = "NORMAL_TEXT"
	StyleTitle      NamedStyleType = "TITLE"
	StyleSubtitle   NamedStyleType = "SUBTITLE"
	StyleHeading1   NamedStyleType = "HEADING_1"
	StyleHeading2   NamedStyleType = "HEADING_2"
	StyleHeading3   NamedStyleType = "HEADING_3"
	StyleHeading4   NamedStyleType = "HEADING_4"
	StyleHeading5   NamedStyleType = "HEADING_5"
	StyleHeading6   NamedStyleType = "HEADING_6"
)

// GlyphType identifies the bullet glyph of a list nesting level. Ordered
// glyphs (decimal, alpha, roman) render as numbered Markdown list items;
// every other glyph renders as an unordered item.
type GlyphType string

const (
	GlyphDecimal GlyphType = "DECIMAL"
	GlyphAlpha   GlyphType = "ALPHA"
	GlyphRoman   GlyphType = "ROMAN"
	GlyphBullet  GlyphType = "GLYPH_TYPE_UNSPECIFIED"
)

// Ordered reports whether the glyph renders as a numbered list item.
func (g GlyphType) Ordered() bool {
	return g == GlyphDecimal || g == GlyphAlpha || g == GlyphRoman
}

// Document is the subset of the Google Docs document resource the engine
// reads and writes. Field names follow the docs/v1 wire format.
// Per prd002-document-access R1.1.
type Document struct {
	// DocumentID is the immutable document identifier.
	DocumentID string `json:"documentId,omitempty"`

	// Title is the document title shown in Drive.
	Title string `json:"title,omitempty"`

	// RevisionID changes whenever the document content changes.
	RevisionID string `json:"revisionId,omitempty"`

	// Body holds the document content.
	Body *Body `json:"body,omitempty"`

	// Lists maps list IDs to their properties. Bullet paragraphs reference
	// entries here by ID to resolve their glyph per nesting level.
	Lists map[string]List `json:"lists,omitempty"`
}

// EndIndex returns the largest end index over the body content, or 1 for an
// empty document. A fresh document holds only its final newline, so an end
// index of 2 means "no user content".
func (d *Document) EndIndex() int {
	end := 1
	if d == nil || d.Body == nil {
		return end
	}
	for _, el := range d.Body.Content {
		if el.EndIndex > end {
			end = el.EndIndex
		}
	}
	return end
}

// Body holds the document's structural elements in document order.
type Body struct {
	Content []StructuralElement `json:"content,omitempty"`
}

// StructuralElement is one top-level block of a document body or table cell.
// Exactly one of Paragraph, Table, or SectionBreak is set; elements with
// none of them are skipped by the conversion engine.
type StructuralElement struct {
	StartIndex   int           `json:"startIndex,omitempty"`
	EndIndex     int           `json:"endIndex,omitempty"`
	Paragraph    *Paragraph    `json:"paragraph,omitempty"`
	Table        *Table        `json:"table,omitempty"`
	SectionBreak *SectionBreak `json:"sectionBreak,omitempty"`
}

// Paragraph is a run of text ending in a newline, with an optional named
// style and optional bullet.
type Paragraph struct {
	Elements       []ParagraphElement `json:"elements,omitempty"`
	ParagraphStyle *ParagraphStyle    `json:"paragraphStyle,omitempty"`
	Bullet         *Bullet            `json:"bullet,omitempty"`
}

// ParagraphStyle carries the named style of a paragraph.
type ParagraphStyle struct {
	NamedStyleType NamedStyleType `json:"namedStyleType,omitempty"`
}

// Bullet marks a paragraph as a list item.
type Bullet struct {
	// ListID references an entry in Document.Lists.
	ListID string `json:"listId,omitempty"`

	// NestingLevel is the 0-based list depth.
	NestingLevel int `json:"nestingLevel,omitempty"`
}

// ParagraphElement is one inline element of a paragraph. Only text runs are
// converted; other element kinds (inline objects, page breaks) are skipped.
type ParagraphElement struct {
	StartIndex int      `json:"startIndex,omitempty"`
	EndIndex   int      `json:"endIndex,omitempty"`
	TextRun    *TextRun `json:"textRun,omitempty"`
}

// TextRun is a contiguous stretch of text sharing one style. Content may end
// with a single newline, which terminates the paragraph and survives the
// Markdown wrapping transform.
type TextRun struct {
	Content   string     `json:"content,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
}

// TextStyle holds the inline style flags the engine round-trips.
type TextStyle struct {
	Bold          bool  `json:"bold,omitempty"`
	Italic        bool  `json:"italic,omitempty"`
	Strikethrough bool  `json:"strikethrough,omitempty"`
	Link          *Link `json:"link,omitempty"`
}

// Link is a hyperlink destination.
type Link struct {
	URL string `json:"url,omitempty"`
}

// Table is a grid of cells. The first row renders as the Markdown header row.
type Table struct {
	Rows      int        `json:"rows,omitempty"`
	Columns   int        `json:"columns,omitempty"`
	TableRows []TableRow `json:"tableRows,omitempty"`
}

// TableRow is one row of table cells.
type TableRow struct {
	TableCells []TableCell `json:"tableCells,omitempty"`
}

// TableCell holds nested structural elements; only paragraph text is
// rendered, without inline styles.
type TableCell struct {
	Content []StructuralElement `json:"content,omitempty"`
}

// SectionBreak separates document sections; it renders as a thematic break.
type SectionBreak struct{}

// List holds the properties of one document list.
type List struct {
	ListProperties *ListProperties `json:"listProperties,omitempty"`
}

// ListProperties describes a list's appearance per nesting level.
type ListProperties struct {
	NestingLevels []NestingLevel `json:"nestingLevels,omitempty"`
}

// NestingLevel describes the glyph at one list depth.
type NestingLevel struct {
	GlyphType GlyphType `json:"glyphType,omitempty"`
}
