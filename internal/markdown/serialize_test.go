// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"testing"

	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// runOf builds a paragraph element holding one text run.
func runOf(content string, style *types.TextStyle) types.ParagraphElement {
	return types.ParagraphElement{TextRun: &types.TextRun{Content: content, TextStyle: style}}
}

// paraOf builds a paragraph structural element from runs.
func paraOf(style types.NamedStyleType, bullet *types.Bullet, runs ...types.ParagraphElement) types.StructuralElement {
	p := &types.Paragraph{Elements: runs, Bullet: bullet}
	if style != "" {
		p.ParagraphStyle = &types.ParagraphStyle{NamedStyleType: style}
	}
	return types.StructuralElement{Paragraph: p}
}

// docOf builds a document from structural elements.
func docOf(lists map[string]types.List, els ...types.StructuralElement) *types.Document {
	return &types.Document{Body: &types.Body{Content: els}, Lists: lists}
}

// cellOf builds a table cell holding one paragraph of plain runs.
func cellOf(contents ...string) types.TableCell {
	els := make([]types.ParagraphElement, len(contents))
	for i, c := range contents {
		els[i] = runOf(c, nil)
	}
	return types.TableCell{Content: []types.StructuralElement{
		{Paragraph: &types.Paragraph{Elements: els}},
	}}
}

func TestSerializeParagraphStyles(t *testing.T) {
	tests := []struct {
		name  string
		style types.NamedStyleType
		want  string
	}{
		{"normal text", types.StyleNormalText, "hello"},
		{"heading 1", types.StyleHeading1, "# hello"},
		{"heading 2", types.StyleHeading2, "## hello"},
		{"heading 3", types.StyleHeading3, "### hello"},
		{"heading 4", types.StyleHeading4, "#### hello"},
		{"heading 5", types.StyleHeading5, "##### hello"},
		{"heading 6", types.StyleHeading6, "###### hello"},
		{"title folds to level 1", types.StyleTitle, "# hello"},
		{"subtitle folds to level 2", types.StyleSubtitle, "## hello"},
		{"unknown style gets no prefix", types.NamedStyleType("HEADING_9"), "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docOf(nil, paraOf(tt.style, nil, runOf("hello\n", nil)))
			if got := Serialize(doc); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextRunWrapOrder(t *testing.T) {
	url := "https://example.com"
	tests := []struct {
		name string
		run  types.TextRun
		want string
	}{
		{"plain", types.TextRun{Content: "hi"}, "hi"},
		{"bold", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Bold: true}}, "**hi**"},
		{"italic", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Italic: true}}, "*hi*"},
		{"strikethrough", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Strikethrough: true}}, "~~hi~~"},
		{"link", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Link: &types.Link{URL: url}}}, "[hi](https://example.com)"},
		{"bold italic nests outward", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Bold: true, Italic: true}}, "***hi***"},
		{"strikethrough wraps bold", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Bold: true, Strikethrough: true}}, "~~**hi**~~"},
		{"link wraps outermost", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Bold: true, Link: &types.Link{URL: url}}}, "[**hi**](https://example.com)"},
		{"trailing newline survives wrapping", types.TextRun{Content: "hi\n", TextStyle: &types.TextStyle{Bold: true}}, "**hi**\n"},
		{"lone newline passes through", types.TextRun{Content: "\n", TextStyle: &types.TextStyle{Bold: true}}, "\n"},
		{"empty content passes through", types.TextRun{Content: ""}, ""},
		{"link without url is ignored", types.TextRun{Content: "hi", TextStyle: &types.TextStyle{Link: &types.Link{}}}, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textRunToMarkdown(&tt.run); got != tt.want {
				t.Errorf("textRunToMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeMultiRunParagraph(t *testing.T) {
	doc := docOf(nil, paraOf("", nil,
		runOf("Hello, ", nil),
		runOf("world", &types.TextStyle{Bold: true}),
		runOf("!\n", nil),
	))
	want := "Hello, **world**!"
	if got := Serialize(doc); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeBullets(t *testing.T) {
	lists := map[string]types.List{
		"kix.abc123": {ListProperties: &types.ListProperties{NestingLevels: []types.NestingLevel{
			{GlyphType: types.GlyphDecimal},
			{GlyphType: types.GlyphBullet},
		}}},
	}

	tests := []struct {
		name   string
		style  types.NamedStyleType
		bullet *types.Bullet
		want   string
	}{
		{"ordered glyph at level 0", "", &types.Bullet{ListID: "kix.abc123"}, "1. item"},
		{"unordered glyph at level 1", "", &types.Bullet{ListID: "kix.abc123", NestingLevel: 1}, "  - item"},
		{"level beyond recorded depth falls back unordered", "", &types.Bullet{ListID: "kix.abc123", NestingLevel: 3}, "      - item"},
		{"unknown list falls back unordered", "", &types.Bullet{ListID: "kix.gone"}, "- item"},
		{"bullet replaces heading prefix", types.StyleHeading2, &types.Bullet{ListID: "kix.abc123"}, "1. item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docOf(lists, paraOf(tt.style, tt.bullet, runOf("item\n", nil)))
			if got := Serialize(doc); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeTable(t *testing.T) {
	doc := docOf(nil, types.StructuralElement{Table: &types.Table{TableRows: []types.TableRow{
		{TableCells: []types.TableCell{cellOf(" Name \n"), cellOf("Role")}},
		{TableCells: []types.TableCell{cellOf("amy"), cellOf("a|b")}},
	}}})

	want := "| Name | Role |\n" +
		"| --- | --- |\n" +
		"| amy | a\\|b |"
	if got := Serialize(doc); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeEmptyTable(t *testing.T) {
	doc := docOf(nil, types.StructuralElement{Table: &types.Table{}})
	if got := Serialize(doc); got != "" {
		t.Errorf("Serialize() = %q, want empty", got)
	}
}

func TestSerializeDocumentLayout(t *testing.T) {
	doc := docOf(nil,
		paraOf("", nil, runOf("first\n", nil)),
		types.StructuralElement{SectionBreak: &types.SectionBreak{}},
		paraOf("", nil, runOf("second\n", nil)),
		types.StructuralElement{}, // unrecognized element, skipped
	)
	want := "first\n\n---\n\nsecond"
	if got := Serialize(doc); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeEmptyDocument(t *testing.T) {
	if got := Serialize(nil); got != "" {
		t.Errorf("Serialize(nil) = %q, want empty", got)
	}
	if got := Serialize(&types.Document{}); got != "" {
		t.Errorf("Serialize(empty) = %q, want empty", got)
	}
}
