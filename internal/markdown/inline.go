// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// SpanKind names one inline style recognized by Extract.
type SpanKind string

const (
	SpanBold          SpanKind = "bold"
	SpanItalic        SpanKind = "italic"
	SpanStrikethrough SpanKind = "strikethrough"
	SpanLink          SpanKind = "link"
)

// Span marks a styled range of the plain text returned by Extract. Offsets
// count Unicode code points into the plain text, half-open [Start, End).
type Span struct {
	Start int
	End   int
	Kind  SpanKind
	URL   string // set for SpanLink
}

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strikePattern = regexp.MustCompile(`~~(.+?)~~`)
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// Extract strips inline Markdown markers from one line of text, returning
// the plain text and the styled spans the markers encoded (R3.3). Passes run
// in a fixed order — bold, italic, strikethrough, link — each over the
// previous pass's output. Spans recorded by earlier passes are re-offset
// through the marker removals of later passes, so every returned span
// indexes the final plain text. Malformed or unbalanced markers stay literal
// text; Extract never fails.
func Extract(text string) (string, []Span) {
	plain := text
	var spans []Span

	plain, spans = applyPass(plain, spans, boldPass)
	plain, spans = applyPass(plain, spans, italicPass)
	plain, spans = applyPass(plain, spans, strikePass)
	plain, spans = applyPass(plain, spans, linkPass)

	for i := range spans {
		spans[i].Start = utf8.RuneCountInString(plain[:spans[i].Start])
		spans[i].End = utf8.RuneCountInString(plain[:spans[i].End])
	}
	return plain, spans
}

// passFunc strips one marker kind from s. It returns the stripped text, the
// byte positions removed from s in ascending order, and the spans it found,
// indexed into the stripped text.
type passFunc func(s string) (string, []int, []Span)

// applyPass runs one pass and re-offsets previously recorded spans through
// the positions it removed. Spans keep their recording order: all bold
// spans, then italic, then strikethrough, then link.
func applyPass(s string, spans []Span, pass passFunc) (string, []Span) {
	out, removed, found := pass(s)
	if len(removed) > 0 {
		for i := range spans {
			spans[i].Start = shiftLeft(spans[i].Start, removed)
			spans[i].End = shiftLeft(spans[i].End, removed)
		}
	}
	return out, append(spans, found...)
}

// shiftLeft maps a byte offset in a pass's input to the matching offset in
// its output by subtracting the count of removed positions before it.
func shiftLeft(pos int, removed []int) int {
	return pos - sort.SearchInts(removed, pos)
}

func boldPass(s string) (string, []int, []Span) {
	return markerPass(s, boldPattern, SpanBold)
}

func strikePass(s string) (string, []int, []Span) {
	return markerPass(s, strikePattern, SpanStrikethrough)
}

// markerPass removes every match of re from s, keeping the first capture
// group and recording one span per match.
func markerPass(s string, re *regexp.Regexp, kind SpanKind) (string, []int, []Span) {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, nil, nil
	}
	var (
		b       strings.Builder
		removed []int
		spans   []Span
		prev    int
	)
	for _, m := range matches {
		start, end := m[0], m[1]
		cStart, cEnd := m[2], m[3]

		b.WriteString(s[prev:start])
		for p := start; p < cStart; p++ {
			removed = append(removed, p)
		}
		outStart := cStart - len(removed)
		b.WriteString(s[cStart:cEnd])
		for p := cEnd; p < end; p++ {
			removed = append(removed, p)
		}
		spans = append(spans, Span{Start: outStart, End: outStart + (cEnd - cStart), Kind: kind})
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String(), removed, spans
}

// linkPass rewrites [text](url) to text, recording a link span carrying the
// URL over the kept text.
func linkPass(s string) (string, []int, []Span) {
	matches := linkPattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, nil, nil
	}
	var (
		b       strings.Builder
		removed []int
		spans   []Span
		prev    int
	)
	for _, m := range matches {
		start, end := m[0], m[1]
		tStart, tEnd := m[2], m[3]
		url := s[m[4]:m[5]]

		b.WriteString(s[prev:start])
		for p := start; p < tStart; p++ {
			removed = append(removed, p)
		}
		outStart := tStart - len(removed)
		b.WriteString(s[tStart:tEnd])
		for p := tEnd; p < end; p++ {
			removed = append(removed, p)
		}
		spans = append(spans, Span{Start: outStart, End: outStart + (tEnd - tStart), Kind: SpanLink, URL: url})
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String(), removed, spans
}

// italicPass strips single-asterisk emphasis. The usual pattern would be
// `(?<!\*)\*([^*]+?)\*(?!\*)`, but RE2 has no lookarounds, so the scan walks
// the bytes directly: an opening asterisk must not follow an asterisk, the
// closing asterisk is the next asterisk after it, and the position after the
// closer must not hold another asterisk. A failed attempt resumes one byte
// later, which keeps inputs like "**a*b*" finding the "*b*" emphasis.
// Asterisks are ASCII, so byte positions are safe in UTF-8 text.
func italicPass(s string) (string, []int, []Span) {
	var (
		b       strings.Builder
		removed []int
		spans   []Span
		prev    int
	)
	i := 0
	for i < len(s) {
		if s[i] != '*' || (i > 0 && s[i-1] == '*') {
			i++
			continue
		}
		next := strings.IndexByte(s[i+1:], '*')
		if next < 0 {
			break
		}
		closing := i + 1 + next
		if closing == i+1 || (closing+1 < len(s) && s[closing+1] == '*') {
			i++
			continue
		}

		b.WriteString(s[prev:i])
		outStart := i - len(removed)
		b.WriteString(s[i+1 : closing])
		removed = append(removed, i, closing)
		spans = append(spans, Span{Start: outStart, End: outStart + (closing - i - 1), Kind: SpanItalic})
		prev = closing + 1
		i = closing + 1
	}
	if len(spans) == 0 {
		return s, nil, nil
	}
	b.WriteString(s[prev:])
	return b.String(), removed, spans
}
