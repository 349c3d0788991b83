package cmd

import (
	_ "embed"
	"io"

	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [filename...]",
		Aliases: []string{"ls"},
		Short:   "List the code blocks of Markdown documents",
		Long:    listHelp,
		PreRunE: func(*cobra.Command, []string) error {
			return compileFilter(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd.Context(), sources(args), cmd.InOrStdin(), opts.jobs, opts.streamOptions()...)
			if err != nil {
				return err
			}

			listRun(cmd.OutOrStdout(), docs, opts.filter)

			return nil
		},

		DisableAutoGenTag: true,
	}

	filterFlags(cmd, opts)

	return cmd
}

func listRun(out io.Writer, docs []document, keep filterFunc) {
	tbl := table.New("#", "Document", "Line", "Language", "Filename", "Bytes").WithWriter(out)

	index := 0

	for _, doc := range docs {
		for _, block := range doc.blocks {
			if keep(block) {
				tbl.AddRow(index, doc.name, block.Line, block.LanguageOr("-"), displayFilename(block), len(block.Content))
			}

			index++
		}
	}

	tbl.Print()
}

func displayFilename(block *mdcode.CodeBlock) string {
	switch {
	case block.Filename == nil:
		return "-"
	case len(*block.Filename) == 0:
		return `""`
	default:
		return *block.Filename
	}
}
