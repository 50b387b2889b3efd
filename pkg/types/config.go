package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call the
// Google APIs.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gdocs-server/0.1"). Per prd002-document-access R5.1.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AuthConfig holds settings for the OAuth flow.
// Per prd001-authentication R1.2, R2.1-R2.4.
type AuthConfig struct {
	// DataDir overrides the default credential directory
	// ($XDG_DATA_HOME/nvim/gdocs). Empty means use the default.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
}

// CacheConfig holds settings for the local document cache.
// Per prd005-local-cache R1.1, R3.2.
type CacheConfig struct {
	// Path is the SQLite database file. Empty means documents.db under the
	// auth data directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// MaxResults is the default maximum number of listing results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WorkspaceConfig holds settings for pull/push of Markdown files.
// Per prd006-workspace R1.3.
type WorkspaceConfig struct {
	// Dir is the directory pulled documents are written to (default ".").
	Dir string `json:"dir" yaml:"dir"`
}

// ServeConfig holds settings for the RPC server.
// Per prd004-rpc-interface R4.1-R4.2.
type ServeConfig struct {
	// Addr is the listen address for the WebSocket transport
	// (e.g. "localhost:9292"). Empty means serve on stdin/stdout only.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// ServerConfig groups all component configurations for the server.
type ServerConfig struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	Auth      AuthConfig      `json:"auth" yaml:"auth"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Workspace WorkspaceConfig `json:"workspace" yaml:"workspace"`
	Serve     ServeConfig     `json:"serve" yaml:"serve"`
}
