// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Request is one docs/v1 batchUpdate request. Exactly one field is set.
// Per prd002-document-access R3.2.
type Request struct {
	InsertText           *InsertTextRequest           `json:"insertText,omitempty"`
	UpdateParagraphStyle *UpdateParagraphStyleRequest `json:"updateParagraphStyle,omitempty"`
	UpdateTextStyle      *UpdateTextStyleRequest      `json:"updateTextStyle,omitempty"`
	DeleteContentRange   *DeleteContentRangeRequest   `json:"deleteContentRange,omitempty"`
}

// Location is an insertion point in the document body.
type Location struct {
	Index int `json:"index"`
}

// Range is a half-open [StartIndex, EndIndex) span of document indices.
// Index 0 addresses the document start marker and is never targeted; user
// content begins at index 1.
type Range struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// InsertTextRequest inserts Text at Location.
type InsertTextRequest struct {
	Location Location `json:"location"`
	Text     string   `json:"text"`
}

// UpdateParagraphStyleRequest applies a named style to every paragraph
// touching Range. Fields names the style fields to overwrite.
type UpdateParagraphStyleRequest struct {
	Range          Range          `json:"range"`
	ParagraphStyle ParagraphStyle `json:"paragraphStyle"`
	Fields         string         `json:"fields"`
}

// UpdateTextStyleRequest applies inline styling to the text in Range.
type UpdateTextStyleRequest struct {
	Range     Range     `json:"range"`
	TextStyle TextStyle `json:"textStyle"`
	Fields    string    `json:"fields"`
}

// DeleteContentRangeRequest removes the content in Range.
type DeleteContentRangeRequest struct {
	Range Range `json:"range"`
}

// BatchUpdateRequest is the POST body of documents.batchUpdate.
type BatchUpdateRequest struct {
	Requests []Request `json:"requests"`
}

// BatchUpdateResponse is the subset of the batchUpdate reply the server uses.
type BatchUpdateResponse struct {
	DocumentID string `json:"documentId,omitempty"`
}

// EditBatch is the deserialized form of an edited Markdown buffer: a single
// insertion anchored at index 1 plus the style operations that re-apply
// formatting to it. Paragraph operations are grouped before text operations;
// within each group, operations follow buffer line order.
// Per prd003-markdown-conversion R3.1-R3.4.
type EditBatch struct {
	// Text is the full plain text to insert at index 1, one "\n"-terminated
	// line per buffer line.
	Text string `json:"text"`

	// ParagraphOps restyle whole lines (headings). Each spans its full line
	// including the trailing newline.
	ParagraphOps []Request `json:"paragraphOps,omitempty"`

	// TextOps restyle inline ranges (bold, italic, strikethrough, links).
	TextOps []Request `json:"textOps,omitempty"`
}

// Requests flattens the batch into wire order: the insertion first, then all
// paragraph styles, then all text styles. Later requests reference indices
// established by the insertion, so the order is load-bearing.
func (b EditBatch) Requests() []Request {
	var reqs []Request
	if b.Text != "" {
		reqs = append(reqs, Request{
			InsertText: &InsertTextRequest{
				Location: Location{Index: 1},
				Text:     b.Text,
			},
		})
	}
	reqs = append(reqs, b.ParagraphOps...)
	reqs = append(reqs, b.TextOps...)
	return reqs
}
