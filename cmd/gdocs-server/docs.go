// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nithilgadde/gdocs.nvim/internal/cache"
	"github.com/nithilgadde/gdocs.nvim/internal/gdocs"
	"github.com/nithilgadde/gdocs.nvim/internal/markdown"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List and manipulate Google Docs from the shell",
	Long: `Docs exposes the document operations the Neovim plugin uses over RPC as
plain subcommands: list, get, create, update, and revision. Documents may be
named by bare ID or by any docs.google.com URL that contains one.`,
}

// --- list subcommand ---

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, most recently modified first",
	Long: `List prints the user's documents. Fresh listings refresh the local cache;
--cached serves from the cache without touching the network. --filter
fuzzy-matches titles the way the editor picker does.`,
	RunE: runDocsList,
}

func runDocsList(cmd *cobra.Command, args []string) error {
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
	filter, _ := cmd.Flags().GetString("filter")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	if cached, _ := cmd.Flags().GetBool("cached"); cached {
		metas, err := store.List(ctx, filter, maxResults)
		if err != nil {
			return err
		}
		return outputListing(cmd, store, metas, filter)
	}

	client, err := remoteClient(ctx, mgr)
	if err != nil {
		return err
	}
	metas, err := client.ListDocuments(ctx, maxResults)
	if err != nil {
		return err
	}
	if err := store.RefreshListing(ctx, metas); err != nil {
		fmt.Fprintf(os.Stderr, "cache refresh failed: %v\n", err)
	}
	if filter != "" {
		metas = cache.Rank(metas, filter)
	}
	return outputListing(cmd, store, metas, filter)
}

func outputListing(cmd *cobra.Command, store *cache.Store, metas []types.DocumentMeta, filter string) error {
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		return store.ExportYAML(context.Background(), os.Stdout, filter)
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(metas)
	}

	if len(metas) == 0 {
		fmt.Println("No documents found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-44s  %-17s  %s\n", "ID", "Modified", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, m := range metas {
		modified := ""
		if !m.ModifiedTime.IsZero() {
			modified = m.ModifiedTime.UTC().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(os.Stdout, "%-44s  %-17s  %s\n", m.ID, modified, m.Title)
	}
	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(metas))
	return nil
}

// --- get subcommand ---

var docsGetCmd = &cobra.Command{
	Use:   "get [document]",
	Short: "Fetch a document and print it as Markdown",
	RunE:  runDocsGet,
}

func runDocsGet(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one document ID or URL")
	}
	docID, err := gdocs.ResolveDocumentID(args[0])
	if err != nil {
		return err
	}

	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	ctx := context.Background()
	client, err := remoteClient(ctx, mgr)
	if err != nil {
		return err
	}
	doc, err := client.GetDocument(ctx, docID)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	fmt.Println(markdown.Serialize(doc))
	return nil
}

// --- create subcommand ---

var docsCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new, empty document",
	RunE:  runDocsCreate,
}

func runDocsCreate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a document title")
	}
	title := strings.Join(args, " ")

	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	ctx := context.Background()
	client, err := remoteClient(ctx, mgr)
	if err != nil {
		return err
	}
	doc, err := client.CreateDocument(ctx, title)
	if err != nil {
		return err
	}
	fmt.Printf("Created %q: %s\n", title, doc.DocumentID)
	return nil
}

// --- update subcommand ---

var docsUpdateCmd = &cobra.Command{
	Use:   "update [document] [file.md]",
	Short: "Replace a document's body with Markdown",
	Long: `Update converts the Markdown file (or stdin when the file is omitted or
"-") into Docs API requests and replaces the document body with the result,
re-applying headings, bold, italic, strikethrough, links, and list bullets.`,
	RunE: runDocsUpdate,
}

func runDocsUpdate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a document ID or URL")
	}
	docID, err := gdocs.ResolveDocumentID(args[0])
	if err != nil {
		return err
	}
	data, err := readInput(args[1:])
	if err != nil {
		return err
	}

	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	ctx := context.Background()
	client, err := remoteClient(ctx, mgr)
	if err != nil {
		return err
	}

	// A file-final newline is a file convention, not an extra empty line.
	body := strings.TrimSuffix(string(data), "\n")
	if err := client.UpdateDocument(ctx, docID, markdown.Deserialize(body)); err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", docID)
	return nil
}

// --- revision subcommand ---

var docsRevisionCmd = &cobra.Command{
	Use:   "revision [document]",
	Short: "Print a document's current revision ID",
	RunE:  runDocsRevision,
}

func runDocsRevision(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one document ID or URL")
	}
	docID, err := gdocs.ResolveDocumentID(args[0])
	if err != nil {
		return err
	}

	mgr, err := newAuthManager()
	if err != nil {
		return err
	}
	ctx := context.Background()
	client, err := remoteClient(ctx, mgr)
	if err != nil {
		return err
	}
	rev, err := client.Revision(ctx, docID)
	if err != nil {
		return err
	}
	fmt.Println(rev)
	return nil
}

func init() {
	docsListCmd.Flags().Int("max-results", 0, "maximum documents to list (0 = server default)")
	docsListCmd.Flags().Bool("cached", false, "serve from the local cache without touching the network")
	docsListCmd.Flags().String("filter", "", "fuzzy-match titles against this pattern")
	docsListCmd.Flags().Bool("json", false, "output the listing as JSON")
	docsListCmd.Flags().Bool("yaml", false, "output the cached listing as YAML")

	docsGetCmd.Flags().Bool("json", false, "output the raw document tree as JSON")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsGetCmd)
	docsCmd.AddCommand(docsCreateCmd)
	docsCmd.AddCommand(docsUpdateCmd)
	docsCmd.AddCommand(docsRevisionCmd)

	rootCmd.AddCommand(docsCmd)
}
