// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rpc serves the line-delimited JSON-RPC protocol the Neovim plugin
// speaks.
// Implements: prd004-rpc-interface (R1-R4);
//
//	docs/ARCHITECTURE § RPC interface.
//
// Requests arrive one JSON object per line: {"id", "method", "params"}.
// Every request gets exactly one response line, {"id", "result"} on success
// or {"id", "error": {"code", "message"}} when the request itself is broken.
// Failures inside a method (not authenticated, API rejection) are not
// protocol errors; they come back as {"success": false, "error"} result
// payloads so the plugin can show them without tearing down the session.
package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nithilgadde/gdocs.nvim/internal/auth"
	"github.com/nithilgadde/gdocs.nvim/internal/cache"
	"github.com/nithilgadde/gdocs.nvim/internal/gdocs"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// JSON-RPC error codes, matching what the Neovim plugin expects.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInternal       = -32603
)

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type response struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// method handles one RPC call. Returning an error produces a protocol-level
// error response; method-level failures go inside the result instead.
type method func(ctx context.Context, params json.RawMessage) (any, error)

// Remote is the part of the Docs client the methods need. *gdocs.Client
// satisfies it.
type Remote interface {
	GetDocument(ctx context.Context, docID string) (*types.Document, error)
	CreateDocument(ctx context.Context, title string) (*types.Document, error)
	UpdateDocument(ctx context.Context, docID string, batch types.EditBatch) error
	Revision(ctx context.Context, docID string) (string, error)
	ListDocuments(ctx context.Context, pageSize int) ([]types.DocumentMeta, error)
}

// Server dispatches plugin requests to the OAuth manager, the Docs client,
// and the local cache.
type Server struct {
	auth    *auth.Manager
	store   *cache.Store
	httpCfg types.HTTPConfig
	logw    io.Writer

	mu     sync.Mutex
	remote Remote

	methods map[string]method
}

// NewServer wires a dispatcher. store may be nil when the cache is disabled.
// logw receives human-readable progress, never protocol frames; nil means
// discard.
func NewServer(mgr *auth.Manager, store *cache.Store, httpCfg types.HTTPConfig, logw io.Writer) *Server {
	if logw == nil {
		logw = io.Discard
	}
	s := &Server{auth: mgr, store: store, httpCfg: httpCfg, logw: logw}
	s.methods = map[string]method{
		"ping":             s.ping,
		"data_dir":         s.dataDir,
		"auth":             s.authenticate,
		"is_authenticated": s.isAuthenticated,
		"list":             s.list,
		"get":              s.get,
		"create":           s.create,
		"update":           s.update,
		"revision":         s.revision,
		"preview":          s.preview,
	}
	return s
}

// ServeStdio answers requests from r on w until EOF. The plugin spawns the
// server as a job and owns both ends, so EOF means the editor is gone and the
// server should exit cleanly.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	in := bufio.NewReader(r)
	enc := json.NewEncoder(w)
	for {
		line, err := in.ReadString('\n')
		if line != "" {
			resp := s.Handle(ctx, []byte(line))
			if werr := enc.Encode(&resp); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Handle processes one request line and returns the response to write back.
// It never panics the transport: malformed input becomes an error response
// with a null id.
func (s *Server) Handle(ctx context.Context, line []byte) response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return response{Error: &rpcError{Code: codeParseError, Message: "Parse error"}}
		}
		return response{Error: &rpcError{Code: codeInternal, Message: err.Error()}}
	}

	m, ok := s.methods[req.Method]
	if !ok {
		return response{ID: req.ID, Error: &rpcError{Code: codeMethodNotFound, Message: "Method not found: " + req.Method}}
	}

	result, err := m(ctx, req.Params)
	if err != nil {
		return response{ID: req.ID, Error: &rpcError{Code: codeInternal, Message: err.Error()}}
	}
	return response{ID: req.ID, Result: result}
}

// ensureRemote builds the Docs client on first use so the server can start
// before the user has authenticated.
func (s *Server) ensureRemote(ctx context.Context) (Remote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remote != nil {
		return s.remote, nil
	}
	hc, err := s.auth.Client(ctx)
	if err != nil {
		return nil, err
	}
	s.remote = gdocs.NewClient(hc, s.httpCfg)
	return s.remote, nil
}

// decodeParams unmarshals params into dst. Objects are taken as named
// arguments; arrays are zipped against names, the method's parameters in
// declared order.
func decodeParams(raw json.RawMessage, dst any, names ...string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '[' {
		return json.Unmarshal(trimmed, dst)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	if len(list) > len(names) {
		return fmt.Errorf("too many positional params: got %d, want at most %d", len(list), len(names))
	}
	named := make(map[string]json.RawMessage, len(list))
	for i, v := range list {
		named[names[i]] = v
	}
	obj, err := json.Marshal(named)
	if err != nil {
		return err
	}
	return json.Unmarshal(obj, dst)
}
