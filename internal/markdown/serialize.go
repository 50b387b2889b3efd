// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown implements bidirectional conversion between Google Docs
// document trees and Markdown text.
// Implements: prd003-markdown-conversion (R1, R2, R3);
//
//	docs/ARCHITECTURE § Conversion.
//
// Both directions are pure functions over their inputs: no retained state,
// no I/O, safe for concurrent use. Offsets and lengths count Unicode code
// points, matching the document index space for the character set the
// converter emits.
package markdown

import (
	"strings"

	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// headingPrefixes maps named paragraph styles to Markdown heading markers.
// TITLE and SUBTITLE fold into levels 1 and 2; unknown styles get no prefix.
var headingPrefixes = map[types.NamedStyleType]string{
	types.StyleHeading1: "# ",
	types.StyleHeading2: "## ",
	types.StyleHeading3: "### ",
	types.StyleHeading4: "#### ",
	types.StyleHeading5: "##### ",
	types.StyleHeading6: "###### ",
	types.StyleTitle:    "# ",
	types.StyleSubtitle: "## ",
}

// Serialize renders a document tree as Markdown (R1.1). Paragraphs become
// single lines, tables become GitHub-flavored table blocks, section breaks
// become thematic breaks, and unrecognized structural elements are skipped.
// Blocks are joined with single newlines; an empty document renders as the
// empty string.
func Serialize(doc *types.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	var blocks []string
	for _, el := range doc.Body.Content {
		switch {
		case el.Paragraph != nil:
			blocks = append(blocks, paragraphToMarkdown(el.Paragraph, doc.Lists))
		case el.Table != nil:
			blocks = append(blocks, tableToMarkdown(el.Table))
		case el.SectionBreak != nil:
			blocks = append(blocks, "\n---\n")
		}
	}
	return strings.Join(blocks, "\n")
}

// paragraphToMarkdown renders one paragraph: the concatenation of its text
// runs, minus the paragraph-terminating newline, behind the heading or list
// prefix. A bullet replaces the heading prefix outright.
func paragraphToMarkdown(para *types.Paragraph, lists map[string]types.List) string {
	var b strings.Builder
	for _, el := range para.Elements {
		if el.TextRun != nil {
			b.WriteString(textRunToMarkdown(el.TextRun))
		}
	}
	text := strings.TrimSuffix(b.String(), "\n")

	prefix := ""
	if para.ParagraphStyle != nil {
		prefix = headingPrefixes[para.ParagraphStyle.NamedStyleType]
	}
	if para.Bullet != nil {
		prefix = bulletPrefix(para.Bullet, lists)
	}
	return prefix + text
}

// bulletPrefix resolves a bullet's Markdown list marker against the document
// list table: two spaces of indent per nesting level, "1. " for ordered
// glyphs, "- " for everything else. A missing list or a nesting level beyond
// the recorded depth falls back to the unordered marker (R2.4).
func bulletPrefix(bullet *types.Bullet, lists map[string]types.List) string {
	level := bullet.NestingLevel
	if level < 0 {
		level = 0
	}
	indent := strings.Repeat("  ", level)

	props := lists[bullet.ListID].ListProperties
	if props != nil && level < len(props.NestingLevels) {
		if props.NestingLevels[level].GlyphType.Ordered() {
			return indent + "1. "
		}
	}
	return indent + "- "
}

// textRunToMarkdown renders one text run with its inline markers. The wrap
// order is fixed: bold, then italic, then strikethrough, then link outermost.
// A trailing newline terminates the paragraph; it is stripped before
// wrapping and re-appended after, so markers never swallow it.
func textRunToMarkdown(run *types.TextRun) string {
	content := run.Content
	if content == "" || content == "\n" {
		return content
	}

	trailing := strings.HasSuffix(content, "\n")
	content = strings.TrimRight(content, "\n")
	if content == "" {
		if trailing {
			return "\n"
		}
		return ""
	}

	if style := run.TextStyle; style != nil {
		if style.Bold {
			content = "**" + content + "**"
		}
		if style.Italic {
			content = "*" + content + "*"
		}
		if style.Strikethrough {
			content = "~~" + content + "~~"
		}
		if style.Link != nil && style.Link.URL != "" {
			content = "[" + content + "](" + style.Link.URL + ")"
		}
	}

	if trailing {
		content += "\n"
	}
	return content
}

// tableToMarkdown renders a table as a GitHub-flavored block: the first row
// is the header, followed by a fixed "---" separator row. Cell text is the
// whitespace-trimmed concatenation of every run in the cell, with literal
// pipes escaped; inline styles are not preserved inside cells (R2.6).
func tableToMarkdown(table *types.Table) string {
	if len(table.TableRows) == 0 {
		return ""
	}
	var rows []string
	for i, row := range table.TableRows {
		cells := make([]string, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			var text strings.Builder
			for _, el := range cell.Content {
				if el.Paragraph == nil {
					continue
				}
				for _, pe := range el.Paragraph.Elements {
					if pe.TextRun != nil {
						text.WriteString(strings.TrimSpace(pe.TextRun.Content))
					}
				}
			}
			cells = append(cells, strings.ReplaceAll(text.String(), "|", `\|`))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")

		if i == 0 {
			seps := make([]string, len(cells))
			for j := range seps {
				seps[j] = "---"
			}
			rows = append(rows, "| "+strings.Join(seps, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n")
}
