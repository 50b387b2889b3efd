// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/nithilgadde/gdocs.nvim/internal/cache"
	"github.com/nithilgadde/gdocs.nvim/internal/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editor RPC protocol on stdin/stdout",
	Long: `Serve speaks line-delimited JSON-RPC on stdin/stdout; the Neovim plugin
spawns it as a background job and owns both ends. With --addr it serves the
same protocol over a WebSocket endpoint at /rpc instead, for attaching an
editor on another machine.

Progress and warnings go to stderr so the protocol stream stays clean.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address for the WebSocket transport (e.g. localhost:9292)")
	serveCmd.Flags().Bool("no-cache", false, "disable the local document cache")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	mgr, err := newAuthManager()
	if err != nil {
		return err
	}

	var store *cache.Store
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		store, err = openStore(mgr)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	srv := rpc.NewServer(mgr, store, httpConfig(), os.Stderr)

	addr, _ := cmd.Flags().GetString("addr")
	if addr = configDefault("serve.addr", addr); addr != "" {
		return srv.ServeWebSocket(context.Background(), addr)
	}
	return srv.ServeStdio(context.Background(), os.Stdin, os.Stdout)
}
