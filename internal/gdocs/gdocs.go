// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gdocs is a typed REST client for the Google Docs and Drive APIs.
// Implements: prd002-document-access (R1, R2, R4);
//
//	docs/ARCHITECTURE § Remote access.
//
// The client speaks to two endpoints: the Docs API for document trees and
// edits, and the Drive API for listing files. Both are plain JSON over
// HTTPS; authorization comes from the *http.Client the caller supplies.
package gdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nithilgadde/gdocs.nvim/internal/httputil"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// API bases are package variables so tests can point the client at a local
// server.
var (
	docsAPIBase  = "https://docs.googleapis.com/v1"
	driveAPIBase = "https://www.googleapis.com/drive/v3"
)

// defaultPageSize bounds Drive listings when the caller passes no limit.
const defaultPageSize = 50

// Client calls the Docs and Drive REST APIs on behalf of one user.
type Client struct {
	http *http.Client
	cfg  types.HTTPConfig
}

// NewClient wraps a pre-authorized HTTP client. cfg.Timeout, when set,
// overrides the client's own timeout; cfg.UserAgent is attached to every
// request.
func NewClient(hc *http.Client, cfg types.HTTPConfig) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	cl := *hc
	if cfg.Timeout > 0 {
		cl.Timeout = cfg.Timeout
	}
	return &Client{http: &cl, cfg: cfg}
}

// GetDocument fetches the full document tree.
func (c *Client) GetDocument(ctx context.Context, docID string) (*types.Document, error) {
	var doc types.Document
	if err := c.do(ctx, http.MethodGet, docsAPIBase+"/documents/"+url.PathEscape(docID), nil, &doc); err != nil {
		return nil, fmt.Errorf("fetching document %s: %w", docID, err)
	}
	return &doc, nil
}

// CreateDocument creates an empty document with the given title and returns
// its identity fields.
func (c *Client) CreateDocument(ctx context.Context, title string) (*types.Document, error) {
	var doc types.Document
	if err := c.do(ctx, http.MethodPost, docsAPIBase+"/documents", map[string]string{"title": title}, &doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return &doc, nil
}

// BatchUpdate applies edit requests to a document in one call. A nil or
// empty request list is a no-op.
func (c *Client) BatchUpdate(ctx context.Context, docID string, reqs []types.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	body := types.BatchUpdateRequest{Requests: reqs}
	var out types.BatchUpdateResponse
	if err := c.do(ctx, http.MethodPost, docsAPIBase+"/documents/"+url.PathEscape(docID)+":batchUpdate", body, &out); err != nil {
		return fmt.Errorf("updating document %s: %w", docID, err)
	}
	return nil
}

// UpdateDocument replaces the document's entire body with the edits in
// batch. Existing content is deleted and the new text and styles applied in
// a single batchUpdate, so the document is never observed half-written.
func (c *Client) UpdateDocument(ctx context.Context, docID string, batch types.EditBatch) error {
	doc, err := c.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	var reqs []types.Request
	// An empty document still holds one terminal newline between indexes 1
	// and 2; only a body beyond that needs clearing.
	if end := doc.EndIndex(); end > 2 {
		reqs = append(reqs, types.Request{DeleteContentRange: &types.DeleteContentRangeRequest{
			Range: types.Range{StartIndex: 1, EndIndex: end - 1},
		}})
	}
	reqs = append(reqs, batch.Requests()...)
	return c.BatchUpdate(ctx, docID, reqs)
}

// Revision returns the document's current revision ID without fetching the
// body.
func (c *Client) Revision(ctx context.Context, docID string) (string, error) {
	q := url.Values{}
	q.Set("fields", "revisionId")
	var doc types.Document
	if err := c.do(ctx, http.MethodGet, docsAPIBase+"/documents/"+url.PathEscape(docID)+"?"+q.Encode(), nil, &doc); err != nil {
		return "", fmt.Errorf("fetching revision of %s: %w", docID, err)
	}
	return doc.RevisionID, nil
}

// ListDocuments returns the user's Google Docs files, most recently
// modified first. pageSize <= 0 selects the default limit.
func (c *Client) ListDocuments(ctx context.Context, pageSize int) ([]types.DocumentMeta, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	q := url.Values{}
	q.Set("q", "mimeType='application/vnd.google-apps.document'")
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("fields", "files(id, name, modifiedTime)")
	q.Set("orderBy", "modifiedTime desc")
	var list types.FileList
	if err := c.do(ctx, http.MethodGet, driveAPIBase+"/files?"+q.Encode(), nil, &list); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return list.Files, nil
}

// do executes one API call: marshal body, send with retry, decode into out.
func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// apiError surfaces the API's error body, truncated, alongside the status.
func apiError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("google API returned %d: %s", resp.StatusCode, msg)
}
