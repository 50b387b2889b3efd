package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithilgadde/gdocs.nvim/internal/gdocs"
	"github.com/nithilgadde/gdocs.nvim/internal/workspace"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

var pullCmd = &cobra.Command{
	Use:   "pull [documents...]",
	Short: "Fetch documents into the workspace as Markdown files",
	Long: `Pull fetches each document, renders it as Markdown, and writes a
<title-slug>.md file with a YAML frontmatter block recording the document ID,
title, and revision. Push reads that block back, so pulled files can be
edited in place and pushed later.`,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().String("dir", "", "workspace directory (default: current directory)")

	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document IDs or URLs")
	}

	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	store, err := openStore(mgr)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	client, err := remoteClient(ctx, mgr)
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("dir")
	ws := workspace.New(types.WorkspaceConfig{Dir: configDefault("workspace.dir", dir)}, client, store)

	for _, ref := range args {
		docID, err := gdocs.ResolveDocumentID(ref)
		if err != nil {
			return err
		}
		path, err := ws.Pull(ctx, docID)
		if err != nil {
			return fmt.Errorf("pulling %s: %w", docID, err)
		}
		fmt.Printf("Pulled %s: %s\n", docID, path)
	}
	return nil
}
