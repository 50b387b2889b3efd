package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nithilgadde/gdocs.nvim/internal/markdown"
	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Run the Markdown conversion engine offline",
	Long: `Convert runs the conversion engine without touching the Google APIs. The
markdown subcommand renders a document JSON tree (as returned by
documents.get) to Markdown; the batch subcommand turns an edited Markdown
file into the batchUpdate requests that would reproduce it.`,
}

var convertMarkdownCmd = &cobra.Command{
	Use:   "markdown [document.json]",
	Short: "Render a document JSON tree as Markdown",
	RunE:  runConvertMarkdown,
}

func runConvertMarkdown(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing document tree: %w", err)
	}
	fmt.Println(markdown.Serialize(&doc))
	return nil
}

var convertBatchCmd = &cobra.Command{
	Use:   "batch [file.md]",
	Short: "Turn edited Markdown into batchUpdate requests",
	RunE:  runConvertBatch,
}

func runConvertBatch(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	batch := markdown.Deserialize(strings.TrimSuffix(string(data), "\n"))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(types.BatchUpdateRequest{Requests: batch.Requests()})
}

// readInput reads the named file, or stdin when no name (or "-") is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func init() {
	convertCmd.AddCommand(convertMarkdownCmd)
	convertCmd.AddCommand(convertBatchCmd)

	rootCmd.AddCommand(convertCmd)
}
