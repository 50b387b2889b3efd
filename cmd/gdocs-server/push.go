package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nithilgadde/gdocs.nvim/internal/workspace"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

var pushCmd = &cobra.Command{
	Use:   "push [files.md...]",
	Short: "Push edited Markdown files back to their documents",
	Long: `Push converts each pulled Markdown file back into Docs API requests and
replaces the remote document body. When the remote revision no longer matches
the one recorded at pull time the push is refused, because it would overwrite
changes made since; --force pushes anyway.`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().Bool("force", false, "push even when the remote document changed since pull")

	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more pulled Markdown files")
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

	ws := workspace.New(types.WorkspaceConfig{Dir: configDefault("workspace.dir", "")}, client, store)
	force, _ := cmd.Flags().GetBool("force")

	for _, path := range args {
		res, err := ws.Push(ctx, path, force)
		if errors.Is(err, workspace.ErrRevisionDrift) {
			return fmt.Errorf("%s: %v (re-pull, or push --force to overwrite)", path, err)
		}
		if err != nil {
			return fmt.Errorf("pushing %s: %w", path, err)
		}
		if res.RevisionDrift {
			fmt.Fprintf(os.Stderr, "warning: %s overwrote remote changes\n", path)
		}
		fmt.Printf("Pushed %s (revision %s)\n", res.DocumentID, res.Revision)
	}
	return nil
}
