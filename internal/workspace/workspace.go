// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace pulls documents into a local Markdown tree and pushes
// edited files back.
// Implements: prd006-workspace (R1-R4);
//
//	docs/ARCHITECTURE § Workspace.
//
// Pulled files carry a YAML frontmatter block recording the source document,
// its title, and the revision observed at pull time. Push reads the block to
// find the target document and to detect edits that would overwrite remote
// changes made since the pull.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
	"go.yaml.in/yaml/v3"

	"github.com/nithilgadde/gdocs.nvim/internal/cache"
	"github.com/nithilgadde/gdocs.nvim/internal/markdown"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// ErrRevisionDrift is returned when the remote document changed since the
// file was pulled. Push with force to overwrite anyway.
var ErrRevisionDrift = errors.New("remote document changed since pull")

// Remote is the document API surface pull and push need.
type Remote interface {
	GetDocument(ctx context.Context, docID string) (*types.Document, error)
	UpdateDocument(ctx context.Context, docID string, batch types.EditBatch) error
	Revision(ctx context.Context, docID string) (string, error)
}

// FileMeta is the YAML frontmatter block at the top of a pulled file.
type FileMeta struct {
	DocumentID string    `yaml:"document_id"`
	Title      string    `yaml:"title"`
	Revision   string    `yaml:"revision"`
	PulledAt   time.Time `yaml:"pulled_at"`
}

// PushResult reports what a push did.
type PushResult struct {
	DocumentID string

	// Revision is the remote revision after the push.
	Revision string

	// RevisionDrift reports that the remote had changed since the pull.
	// It is only ever true on a forced push; an unforced push fails with
	// ErrRevisionDrift instead.
	RevisionDrift bool
}

// Workspace syncs a directory of Markdown files with remote documents.
type Workspace struct {
	dir    string
	remote Remote
	store  *cache.Store
}

// New returns a workspace over cfg.Dir. store may be nil; pull state is then
// not recorded locally.
func New(cfg types.WorkspaceConfig, remote Remote, store *cache.Store) *Workspace {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Workspace{dir: dir, remote: remote, store: store}
}

// Pull fetches a document, converts it to Markdown, and writes it into the
// workspace. It returns the path of the written file.
func (w *Workspace) Pull(ctx context.Context, docID string) (string, error) {
	doc, err := w.remote.GetDocument(ctx, docID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace directory: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	meta := FileMeta{
		DocumentID: docID,
		Title:      doc.Title,
		Revision:   doc.RevisionID,
		PulledAt:   now,
	}
	path := w.resolvePath(docID, slugFor(doc.Title, docID))

	data, err := renderFile(meta, markdown.Serialize(doc))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if w.store != nil {
		err := w.store.MarkPulled(ctx, types.DocumentMeta{
			ID:        docID,
			Title:     doc.Title,
			Revision:  doc.RevisionID,
			LocalPath: path,
		}, now)
		if err != nil {
			return "", err
		}
	}
	return path, nil
}

// Push converts an edited workspace file back to document edits and applies
// them. Unless force is set, it refuses to push over remote changes made
// since the file was pulled.
func (w *Workspace) Push(ctx context.Context, path string, force bool) (PushResult, error) {
	meta, body, err := parseFile(path)
	if err != nil {
		return PushResult{}, err
	}

	remoteRev, err := w.remote.Revision(ctx, meta.DocumentID)
	if err != nil {
		return PushResult{}, err
	}
	drift := meta.Revision != "" && remoteRev != "" && remoteRev != meta.Revision
	if drift && !force {
		return PushResult{}, fmt.Errorf("pushing %s (pulled at %s): %w",
			path, meta.Revision, ErrRevisionDrift)
	}

	batch := markdown.Deserialize(body)
	if err := w.remote.UpdateDocument(ctx, meta.DocumentID, batch); err != nil {
		return PushResult{}, fmt.Errorf("pushing %s: %w", path, err)
	}

	newRev, err := w.remote.Revision(ctx, meta.DocumentID)
	if err != nil {
		return PushResult{DocumentID: meta.DocumentID}, fmt.Errorf("push applied, refreshing revision: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	meta.Revision = newRev
	meta.PulledAt = now
	data, err := renderFile(meta, body)
	if err != nil {
		return PushResult{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return PushResult{}, fmt.Errorf("rewriting %s: %w", path, err)
	}

	if w.store != nil {
		err := w.store.MarkPulled(ctx, types.DocumentMeta{
			ID:        meta.DocumentID,
			Title:     meta.Title,
			Revision:  newRev,
			LocalPath: path,
		}, now)
		if err != nil {
			return PushResult{}, err
		}
	}
	return PushResult{DocumentID: meta.DocumentID, Revision: newRev, RevisionDrift: drift}, nil
}

// ReadFileMeta returns the frontmatter of a workspace file.
func ReadFileMeta(path string) (FileMeta, error) {
	meta, _, err := parseFile(path)
	return meta, err
}

// parseFile splits a workspace file into frontmatter and Markdown body,
// undoing exactly what renderFile adds: the blank separator line after the
// frontmatter and the file-terminating newline.
func parseFile(path string) (FileMeta, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileMeta{}, "", fmt.Errorf("reading %s: %w", path, err)
	}

	var meta FileMeta
	rest, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return FileMeta{}, "", fmt.Errorf("parsing frontmatter of %s: %w", path, err)
	}
	if meta.DocumentID == "" {
		return FileMeta{}, "", fmt.Errorf("%s is not a pulled document (missing document_id frontmatter)", path)
	}

	body := strings.TrimPrefix(string(rest), "\n")
	body = strings.TrimSuffix(body, "\n")
	return meta, body, nil
}

func renderFile(meta FileMeta, body string) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// slugFor derives the workspace filename stem from the document title,
// falling back to the document ID when the title normalizes to nothing.
func slugFor(title, docID string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return docID
	}
	return normalized
}

// resolvePath picks the target file for a pull, disambiguating title
// collisions between different documents with a document ID suffix.
func (w *Workspace) resolvePath(docID, stem string) string {
	path := filepath.Join(w.dir, stem+".md")
	existing, err := ReadFileMeta(path)
	if err != nil || existing.DocumentID == docID {
		return path
	}
	suffix := docID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return filepath.Join(w.dir, stem+"-"+suffix+".md")
}
