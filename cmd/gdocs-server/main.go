// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gdocs-server CLI.
// Implements: prd001-authentication, prd002-document-access,
//             prd003-markdown-conversion, prd004-rpc-interface (CLI surface).
// See docs/ARCHITECTURE § Command Surface, § Project Structure.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nithilgadde/gdocs.nvim/internal/auth"
	"github.com/nithilgadde/gdocs.nvim/internal/cache"
	"github.com/nithilgadde/gdocs.nvim/internal/gdocs"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "gdocs-server/0.1"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the gdocs-server CLI.
var rootCmd = &cobra.Command{
	Use:   "gdocs-server",
	Short: "Google Docs backend for the gdocs.nvim plugin",
	Long: `gdocs-server is the Go backend behind gdocs.nvim. The Neovim plugin spawns
it as a job and drives it over line-delimited JSON-RPC (the serve command);
every other command exposes the same machinery for shell use: OAuth setup,
document listing and transfer, offline Markdown conversion, and HTML preview.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gdocs.yaml or ~/.config/gdocs/gdocs.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "credential directory (default: $XDG_DATA_HOME/nvim/gdocs)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gdocs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gdocs"))
		}
	}

	viper.SetEnvPrefix("GDOCS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configDefault returns flagValue if set, the viper value for key otherwise.
func configDefault(key, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(key)
}

func newAuthManager() (*auth.Manager, error) {
	dir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	return auth.NewManager(configDefault("auth.data_dir", dir))
}

func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}
}

// openStore opens the listing cache, defaulting to documents.db next to the
// stored credentials.
func openStore(mgr *auth.Manager) (*cache.Store, error) {
	path := viper.GetString("cache.path")
	if path == "" {
		path = filepath.Join(mgr.DataDir(), "documents.db")
	}
	return cache.NewStore(types.CacheConfig{
		Path:       path,
		MaxResults: viper.GetInt("cache.max_results"),
	})
}

// remoteClient builds an authorized Docs client or fails with the
// authentication guidance error.
func remoteClient(ctx context.Context, mgr *auth.Manager) (*gdocs.Client, error) {
	hc, err := mgr.Client(ctx)
	if err != nil {
		return nil, err
	}
	return gdocs.NewClient(hc, httpConfig()), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
