package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nithilgadde/gdocs.nvim/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file.md]",
	Short: "Render Markdown to a standalone HTML page",
	Long: `Preview renders a Markdown file (or stdin) to a self-contained HTML page
with GitHub-flavored tables, strikethrough, and autolinks, suitable for
opening in a browser.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("out", "", "write the HTML to this file (default: stdout)")
	previewCmd.Flags().String("title", "", "page title (default: the input file name)")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = "Preview"
		if len(args) > 0 && args[0] != "-" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
	}

	html, err := preview.Page(title, string(data))
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
