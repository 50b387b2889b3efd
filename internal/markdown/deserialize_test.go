// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want lineInfo
	}{
		{"plain", "just text", lineInfo{text: "just text"}},
		{"heading", "## Sub", lineInfo{text: "Sub", style: types.StyleHeading2}},
		{"heading with empty rest", "#### ", lineInfo{text: "", style: types.StyleHeading4}},
		{"hash without space is not a heading", "#missing", lineInfo{text: "#missing"}},
		{"seven hashes is not a heading", "####### deep", lineInfo{text: "####### deep"}},
		{"dash item", "- li", lineInfo{text: "li", prefix: "• "}},
		{"star item", "* li", lineInfo{text: "li", prefix: "• "}},
		{"indent depth is floor of spaces over two", "    * deep", lineInfo{text: "deep", prefix: "• ", indent: 2}},
		{"odd indent rounds down", "   - odd", lineInfo{text: "odd", prefix: "• ", indent: 1}},
		{"numbered item", "3. num", lineInfo{text: "num", prefix: "1. "}},
		{"numbered with indent", "  12. num", lineInfo{text: "num", prefix: "1. ", indent: 1}},
		{"heading then list on the remainder", "# - both", lineInfo{text: "both", prefix: "• ", style: types.StyleHeading1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLine(tt.line)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(lineInfo{})); diff != "" {
				t.Errorf("classifyLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

// paraStyleOp builds the expected updateParagraphStyle request.
func paraStyleOp(start, end int, style types.NamedStyleType) types.Request {
	return types.Request{UpdateParagraphStyle: &types.UpdateParagraphStyleRequest{
		Range:          types.Range{StartIndex: start, EndIndex: end},
		ParagraphStyle: types.ParagraphStyle{NamedStyleType: style},
		Fields:         "namedStyleType",
	}}
}

// inlineOp builds the expected updateTextStyle request.
func inlineOp(start, end int, style types.TextStyle, fields string) types.Request {
	return types.Request{UpdateTextStyle: &types.UpdateTextStyleRequest{
		Range:     types.Range{StartIndex: start, EndIndex: end},
		TextStyle: style,
		Fields:    fields,
	}}
}

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.EditBatch
	}{
		{
			name: "plain line",
			in:   "hello",
			want: types.EditBatch{Text: "hello\n"},
		},
		{
			name: "empty buffer yields one empty line",
			in:   "",
			want: types.EditBatch{Text: "\n"},
		},
		{
			name: "trailing newline yields final empty line",
			in:   "a\n",
			want: types.EditBatch{Text: "a\n\n"},
		},
		{
			name: "heading spans its full line",
			in:   "# Title",
			want: types.EditBatch{
				Text:         "Title\n",
				ParagraphOps: []types.Request{paraStyleOp(1, 7, types.StyleHeading1)},
			},
		},
		{
			name: "heading precedes inline extraction",
			in:   "# **bold** text",
			want: types.EditBatch{
				Text:         "bold text\n",
				ParagraphOps: []types.Request{paraStyleOp(1, 11, types.StyleHeading1)},
				TextOps:      []types.Request{inlineOp(1, 5, types.TextStyle{Bold: true}, "bold")},
			},
		},
		{
			name: "dash item gets glyph prefix",
			in:   "- item",
			want: types.EditBatch{Text: "• item\n"},
		},
		{
			name: "star item gets glyph prefix",
			in:   "* item",
			want: types.EditBatch{Text: "• item\n"},
		},
		{
			name: "nested item drops its indent",
			in:   "    - deep",
			want: types.EditBatch{Text: "• deep\n"},
		},
		{
			name: "numbered item renumbers to one",
			in:   "42. answer",
			want: types.EditBatch{Text: "1. answer\n"},
		},
		{
			name: "glyph prefix shifts inline offsets",
			in:   "- **hot** take",
			want: types.EditBatch{
				Text:    "• hot take\n",
				TextOps: []types.Request{inlineOp(3, 6, types.TextStyle{Bold: true}, "bold")},
			},
		},
		{
			name: "link op carries its url",
			in:   "see [docs](https://example.com)",
			want: types.EditBatch{
				Text: "see docs\n",
				TextOps: []types.Request{
					inlineOp(5, 9, types.TextStyle{Link: &types.Link{URL: "https://example.com"}}, "link"),
				},
			},
		},
		{
			name: "cursor advances across lines",
			in:   "# A\n\ntext *i*",
			want: types.EditBatch{
				Text:         "A\n\ntext i\n",
				ParagraphOps: []types.Request{paraStyleOp(1, 3, types.StyleHeading1)},
				TextOps:      []types.Request{inlineOp(9, 10, types.TextStyle{Italic: true}, "italic")},
			},
		},
		{
			name: "offsets count runes in multibyte text",
			in:   "café **b**\nx *i*",
			want: types.EditBatch{
				Text: "café b\nx i\n",
				TextOps: []types.Request{
					inlineOp(6, 7, types.TextStyle{Bold: true}, "bold"),
					inlineOp(10, 11, types.TextStyle{Italic: true}, "italic"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deserialize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Deserialize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDeserializeOffsetsStayInBounds(t *testing.T) {
	buffers := []string{
		"# ***hi*** ~~[x](u)~~",
		"- *a* **b** ~~c~~\n  - [d](u) tail\n\nplain",
		"### héllo **wörld** *ünïcode*",
	}
	for _, in := range buffers {
		batch := Deserialize(in)
		limit := 1 + len([]rune(batch.Text))
		check := func(r types.Range) {
			if r.StartIndex < 1 || r.StartIndex > r.EndIndex || r.EndIndex > limit {
				t.Errorf("Deserialize(%q): range %+v outside [1, %d)", in, r, limit)
			}
		}
		for _, op := range batch.ParagraphOps {
			check(op.UpdateParagraphStyle.Range)
		}
		for _, op := range batch.TextOps {
			check(op.UpdateTextStyle.Range)
		}
	}
}

func TestEditBatchRequestOrder(t *testing.T) {
	batch := Deserialize("# h\n**b** *i*")
	reqs := batch.Requests()

	if len(reqs) != 4 {
		t.Fatalf("len(requests) = %d, want 4", len(reqs))
	}
	if reqs[0].InsertText == nil || reqs[0].InsertText.Location.Index != 1 {
		t.Errorf("first request must insert at index 1, got %+v", reqs[0])
	}
	if reqs[0].InsertText.Text != "h\nb i\n" {
		t.Errorf("insert text = %q, want %q", reqs[0].InsertText.Text, "h\nb i\n")
	}
	if reqs[1].UpdateParagraphStyle == nil {
		t.Errorf("second request must restyle the heading paragraph, got %+v", reqs[1])
	}
	if reqs[2].UpdateTextStyle == nil || reqs[2].UpdateTextStyle.Fields != "bold" {
		t.Errorf("third request must apply bold, got %+v", reqs[2])
	}
	if reqs[3].UpdateTextStyle == nil || reqs[3].UpdateTextStyle.Fields != "italic" {
		t.Errorf("fourth request must apply italic, got %+v", reqs[3])
	}
}

// applyEdits models the collaborator applying a batch to an empty document:
// the insertion becomes newline-terminated paragraphs, paragraph ops set
// named styles, text ops split runs at style boundaries. Leading list glyphs
// are mapped back to structural bullets so the round trip over flat lists
// can be observed.
func applyEdits(t *testing.T, batch types.EditBatch, lists map[string]types.List) *types.Document {
	t.Helper()
	runes := []rune(batch.Text)

	type rawLine struct {
		start int // 1-anchored rune offset of the line
		runes []rune
	}
	var lines []rawLine
	lineStart := 0
	for i, r := range runes {
		if r == '\n' {
			lines = append(lines, rawLine{start: 1 + lineStart, runes: runes[lineStart : i+1]})
			lineStart = i + 1
		}
	}

	styles := make(map[int]types.NamedStyleType)
	for _, op := range batch.ParagraphOps {
		r := op.UpdateParagraphStyle.Range
		for i, ln := range lines {
			if r.StartIndex < ln.start+len(ln.runes) && r.EndIndex > ln.start {
				styles[i] = op.UpdateParagraphStyle.ParagraphStyle.NamedStyleType
			}
		}
	}

	var content []types.StructuralElement
	for i, ln := range lines {
		text := ln.runes
		var bullet *types.Bullet
		switch {
		case strings.HasPrefix(string(text), unorderedGlyph):
			bullet = &types.Bullet{ListID: "kix.unordered"}
			text = text[2:]
		case strings.HasPrefix(string(text), "1. "):
			bullet = &types.Bullet{ListID: "kix.ordered"}
			text = text[3:]
		}
		prefixLen := len(ln.runes) - len(text)

		type relOp struct {
			start, end int
			style      types.TextStyle
		}
		var rel []relOp
		cuts := map[int]bool{0: true, len(text): true}
		for _, op := range batch.TextOps {
			u := op.UpdateTextStyle
			s := u.Range.StartIndex - ln.start - prefixLen
			e := u.Range.EndIndex - ln.start - prefixLen
			if e <= 0 || s >= len(text) {
				continue
			}
			rel = append(rel, relOp{start: s, end: e, style: u.TextStyle})
			cuts[s] = true
			cuts[e] = true
		}

		bounds := make([]int, 0, len(cuts))
		for c := range cuts {
			bounds = append(bounds, c)
		}
		sort.Ints(bounds)

		para := &types.Paragraph{Bullet: bullet}
		if st, ok := styles[i]; ok {
			para.ParagraphStyle = &types.ParagraphStyle{NamedStyleType: st}
		}
		for j := 0; j+1 < len(bounds); j++ {
			lo, hi := bounds[j], bounds[j+1]
			var st types.TextStyle
			styled := false
			for _, op := range rel {
				if op.start <= lo && hi <= op.end {
					styled = true
					if op.style.Bold {
						st.Bold = true
					}
					if op.style.Italic {
						st.Italic = true
					}
					if op.style.Strikethrough {
						st.Strikethrough = true
					}
					if op.style.Link != nil {
						st.Link = op.style.Link
					}
				}
			}
			run := &types.TextRun{Content: string(text[lo:hi])}
			if styled {
				run.TextStyle = &st
			}
			para.Elements = append(para.Elements, types.ParagraphElement{TextRun: run})
		}
		content = append(content, types.StructuralElement{Paragraph: para})
	}

	return &types.Document{Body: &types.Body{Content: content}, Lists: lists}
}

func TestRoundTripStability(t *testing.T) {
	lists := map[string]types.List{
		"kix.unordered": {ListProperties: &types.ListProperties{NestingLevels: []types.NestingLevel{
			{GlyphType: types.GlyphBullet},
		}}},
		"kix.ordered": {ListProperties: &types.ListProperties{NestingLevels: []types.NestingLevel{
			{GlyphType: types.GlyphDecimal},
		}}},
	}

	doc := docOf(lists,
		paraOf(types.StyleHeading1, nil, runOf("Notes\n", nil)),
		paraOf("", nil,
			runOf("plain ", nil),
			runOf("bold", &types.TextStyle{Bold: true}),
			runOf(" tail\n", nil),
		),
		paraOf("", &types.Bullet{ListID: "kix.unordered"}, runOf("first\n", nil)),
		paraOf("", &types.Bullet{ListID: "kix.ordered"}, runOf("second\n", nil)),
		paraOf(types.StyleHeading3, nil, runOf("wrap\n", &types.TextStyle{Italic: true})),
		paraOf("", nil,
			runOf("a link: ", nil),
			runOf("here", &types.TextStyle{Link: &types.Link{URL: "https://docs.example.com/d/1"}}),
			runOf("\n", nil),
		),
	)

	first := Serialize(doc)
	batch := Deserialize(first)
	second := Serialize(applyEdits(t, batch, lists))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip drifted (-first +second):\n%s", diff)
	}
}
