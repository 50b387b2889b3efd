// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nithilgadde/gdocs.nvim/internal/cache"
	"github.com/nithilgadde/gdocs.nvim/internal/gdocs"
	"github.com/nithilgadde/gdocs.nvim/internal/markdown"
	"github.com/nithilgadde/gdocs.nvim/internal/preview"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// failureResult reports a method-level failure inside the result payload, so
// the plugin can tell "the operation failed" apart from protocol errors.
type failureResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func failure(err error) failureResult {
	return failureResult{Error: err.Error()}
}

type pingResult struct {
	Pong bool `json:"pong"`
}

type dataDirResult struct {
	Path string `json:"path"`
}

type authStatusResult struct {
	Authenticated bool `json:"authenticated"`
}

type authResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listParams struct {
	MaxResults int    `json:"max_results"`
	Cached     bool   `json:"cached"`
	Filter     string `json:"filter"`
}

type documentEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Modified string `json:"modified"`
}

type listResult struct {
	Success   bool            `json:"success"`
	Documents []documentEntry `json:"documents"`
}

type getParams struct {
	DocID string `json:"doc_id"`
}

type getResult struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Revision string `json:"revision"`
	Content  string `json:"content"`
}

type createParams struct {
	Title string `json:"title"`
}

type createResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Title   string `json:"title"`
}

type updateParams struct {
	DocID    string `json:"doc_id"`
	Markdown string `json:"markdown"`
}

type updateResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type revisionParams struct {
	DocID string `json:"doc_id"`
}

type revisionResult struct {
	Success  bool   `json:"success"`
	Revision string `json:"revision"`
}

type previewParams struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title"`
}

type previewResult struct {
	Success bool   `json:"success"`
	HTML    string `json:"html"`
}

func validateListParams(p *listParams) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.MaxResults, validation.Min(0)),
	)
}

func validateGetParams(p *getParams) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.DocID, validation.Required),
	)
}

func validateCreateParams(p *createParams) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required),
	)
}

// validateUpdateParams leaves markdown unchecked: an empty body is a valid
// update that clears the document.
func validateUpdateParams(p *updateParams) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.DocID, validation.Required),
	)
}

func validateRevisionParams(p *revisionParams) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.DocID, validation.Required),
	)
}

func (s *Server) ping(_ context.Context, _ json.RawMessage) (any, error) {
	return pingResult{Pong: true}, nil
}

func (s *Server) dataDir(_ context.Context, _ json.RawMessage) (any, error) {
	return dataDirResult{Path: s.auth.DataDir()}, nil
}

func (s *Server) isAuthenticated(ctx context.Context, _ json.RawMessage) (any, error) {
	return authStatusResult{Authenticated: s.auth.IsAuthenticated(ctx)}, nil
}

// authenticate runs the browser OAuth flow. The consent URL goes to the log
// writer, where the plugin surfaces it to the user.
func (s *Server) authenticate(ctx context.Context, _ json.RawMessage) (any, error) {
	if err := s.auth.Authenticate(ctx, s.logw); err != nil {
		return failure(err), nil
	}
	return authResult{Success: true, Message: "Authentication successful!"}, nil
}

// list returns the user's documents, most recently modified first. Fresh
// listings refresh the local cache; cached=true serves from the cache without
// touching the network. A filter fuzzy-matches titles either way.
func (s *Server) list(ctx context.Context, raw json.RawMessage) (any, error) {
	var p listParams
	if err := decodeParams(raw, &p, "max_results", "cached", "filter"); err != nil {
		return nil, err
	}
	if err := validateListParams(&p); err != nil {
		return nil, err
	}

	if p.Cached {
		if s.store == nil {
			return failure(errors.New("local cache is disabled")), nil
		}
		metas, err := s.store.List(ctx, p.Filter, p.MaxResults)
		if err != nil {
			return failure(err), nil
		}
		return listResult{Success: true, Documents: listEntries(metas)}, nil
	}

	remote, err := s.ensureRemote(ctx)
	if err != nil {
		return failure(err), nil
	}
	metas, err := remote.ListDocuments(ctx, p.MaxResults)
	if err != nil {
		return failure(err), nil
	}
	if s.store != nil {
		if err := s.store.RefreshListing(ctx, metas); err != nil {
			fmt.Fprintf(s.logw, "cache refresh failed: %v\n", err)
		}
	}
	if p.Filter != "" {
		metas = cache.Rank(metas, p.Filter)
	}
	return listResult{Success: true, Documents: listEntries(metas)}, nil
}

func (s *Server) get(ctx context.Context, raw json.RawMessage) (any, error) {
	var p getParams
	if err := decodeParams(raw, &p, "doc_id"); err != nil {
		return nil, err
	}
	if err := validateGetParams(&p); err != nil {
		return nil, err
	}
	docID, err := gdocs.ResolveDocumentID(p.DocID)
	if err != nil {
		return failure(err), nil
	}
	remote, err := s.ensureRemote(ctx)
	if err != nil {
		return failure(err), nil
	}
	doc, err := remote.GetDocument(ctx, docID)
	if err != nil {
		return failure(err), nil
	}
	title := doc.Title
	if title == "" {
		title = "Untitled"
	}
	return getResult{
		Success:  true,
		ID:       docID,
		Title:    title,
		Revision: doc.RevisionID,
		Content:  markdown.Serialize(doc),
	}, nil
}

func (s *Server) create(ctx context.Context, raw json.RawMessage) (any, error) {
	var p createParams
	if err := decodeParams(raw, &p, "title"); err != nil {
		return nil, err
	}
	if err := validateCreateParams(&p); err != nil {
		return nil, err
	}
	remote, err := s.ensureRemote(ctx)
	if err != nil {
		return failure(err), nil
	}
	doc, err := remote.CreateDocument(ctx, p.Title)
	if err != nil {
		return failure(err), nil
	}
	return createResult{Success: true, ID: doc.DocumentID, Title: p.Title}, nil
}

func (s *Server) update(ctx context.Context, raw json.RawMessage) (any, error) {
	var p updateParams
	if err := decodeParams(raw, &p, "doc_id", "markdown"); err != nil {
		return nil, err
	}
	if err := validateUpdateParams(&p); err != nil {
		return nil, err
	}
	docID, err := gdocs.ResolveDocumentID(p.DocID)
	if err != nil {
		return failure(err), nil
	}
	remote, err := s.ensureRemote(ctx)
	if err != nil {
		return failure(err), nil
	}
	if err := remote.UpdateDocument(ctx, docID, markdown.Deserialize(p.Markdown)); err != nil {
		return failure(err), nil
	}
	return updateResult{Success: true, ID: docID}, nil
}

func (s *Server) revision(ctx context.Context, raw json.RawMessage) (any, error) {
	var p revisionParams
	if err := decodeParams(raw, &p, "doc_id"); err != nil {
		return nil, err
	}
	if err := validateRevisionParams(&p); err != nil {
		return nil, err
	}
	docID, err := gdocs.ResolveDocumentID(p.DocID)
	if err != nil {
		return failure(err), nil
	}
	remote, err := s.ensureRemote(ctx)
	if err != nil {
		return failure(err), nil
	}
	rev, err := remote.Revision(ctx, docID)
	if err != nil {
		return failure(err), nil
	}
	return revisionResult{Success: true, Revision: rev}, nil
}

func (s *Server) preview(_ context.Context, raw json.RawMessage) (any, error) {
	var p previewParams
	if err := decodeParams(raw, &p, "markdown", "title"); err != nil {
		return nil, err
	}
	if p.Title == "" {
		p.Title = "Preview"
	}
	html, err := preview.Page(p.Title, p.Markdown)
	if err != nil {
		return failure(err), nil
	}
	return previewResult{Success: true, HTML: html}, nil
}

func listEntries(metas []types.DocumentMeta) []documentEntry {
	entries := make([]documentEntry, 0, len(metas))
	for _, m := range metas {
		e := documentEntry{ID: m.ID, Name: m.Title}
		if !m.ModifiedTime.IsZero() {
			e.Modified = m.ModifiedTime.UTC().Format(time.RFC3339)
		}
		entries = append(entries, e)
	}
	return entries
}
