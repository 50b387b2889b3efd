// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

var (
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	numberedPattern = regexp.MustCompile(`^(\s*)\d+\.\s+(.*)$`)
)

// unorderedGlyph is the visual marker emitted for unordered list items on
// the way back into a document. It is plain text, not a structural bullet:
// the reverse path does not produce bullet operations, so serialize and
// deserialize treat lists asymmetrically.
const unorderedGlyph = "• "

// lineInfo is the outcome of classifying one buffer line: the remaining text
// still carrying inline markers, the visual list prefix to re-emit, the
// heading style when the line was a heading, and the parsed list indent
// depth. The depth is recorded but not sent anywhere; only the glyph prefix
// survives the trip.
type lineInfo struct {
	text   string
	prefix string
	style  types.NamedStyleType
	indent int
}

// classifyLine runs the per-line state machine: heading detection first,
// then list detection on the heading-stripped remainder.
func classifyLine(line string) lineInfo {
	var info lineInfo

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		info.style = types.NamedStyleType(fmt.Sprintf("HEADING_%d", len(m[1])))
		line = m[2]
	}

	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		info.indent = len(m[1]) / 2
		info.prefix = unorderedGlyph
		line = m[2]
	} else if m := numberedPattern.FindStringSubmatch(line); m != nil {
		info.indent = len(m[1]) / 2
		info.prefix = "1. "
		line = m[2]
	}

	info.text = line
	return info
}

// Deserialize converts an edited Markdown buffer into the edit batch that
// reproduces it in a document (R3.1): a single insertion anchored at index 1
// plus the style operations for headings and inline formatting. The cursor
// starts at index 1 — index 0 addresses the document start and is never
// targeted. Every buffer line contributes exactly one newline-terminated
// line to the insertion, so a buffer ending in "\n" yields a final empty
// line, mirroring the editor's view of the file. Deserialize is total: any
// input produces a batch, never an error.
func Deserialize(text string) types.EditBatch {
	var (
		b      strings.Builder
		batch  types.EditBatch
		cursor = 1
	)

	for _, line := range strings.Split(text, "\n") {
		info := classifyLine(line)
		plain, spans := Extract(info.text)
		full := info.prefix + plain + "\n"
		lineLen := utf8.RuneCountInString(full)
		shift := cursor + utf8.RuneCountInString(info.prefix)

		for _, span := range spans {
			batch.TextOps = append(batch.TextOps, textStyleOp(shift+span.Start, shift+span.End, span))
		}
		if info.style != "" {
			batch.ParagraphOps = append(batch.ParagraphOps, types.Request{
				UpdateParagraphStyle: &types.UpdateParagraphStyleRequest{
					Range:          types.Range{StartIndex: cursor, EndIndex: cursor + lineLen},
					ParagraphStyle: types.ParagraphStyle{NamedStyleType: info.style},
					Fields:         "namedStyleType",
				},
			})
		}

		b.WriteString(full)
		cursor += lineLen
	}

	batch.Text = b.String()
	return batch
}

// textStyleOp builds the updateTextStyle request for one inline span.
func textStyleOp(start, end int, span Span) types.Request {
	var (
		style  types.TextStyle
		fields string
	)
	switch span.Kind {
	case SpanBold:
		style.Bold = true
		fields = "bold"
	case SpanItalic:
		style.Italic = true
		fields = "italic"
	case SpanStrikethrough:
		style.Strikethrough = true
		fields = "strikethrough"
	case SpanLink:
		style.Link = &types.Link{URL: span.URL}
		fields = "link"
	}
	return types.Request{
		UpdateTextStyle: &types.UpdateTextStyleRequest{
			Range:     types.Range{StartIndex: start, EndIndex: end},
			TextStyle: style,
			Fields:    fields,
		},
	}
}
