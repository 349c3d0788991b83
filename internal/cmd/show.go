package cmd

import (
	_ "embed"
	"io"

	"github.com/spf13/cobra"
)

//go:embed help/show.md
var showHelp string

func showCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "show [flags] block-filename [filename...]",
		Aliases: []string{"cat"},
		Short:   "Print the code block declared with the given filename",
		Long:    showHelp,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd.Context(), sources(args[1:]), cmd.InOrStdin(), opts.jobs, opts.streamOptions()...)
			if err != nil {
				return err
			}

			block, err := concat(docs).FindByFilename(args[0])
			if err != nil {
				return err
			}

			opts.status("%s: line %d, language: %s\n", args[0], block.Line, block.LanguageOr("unknown"))

			_, err = io.WriteString(cmd.OutOrStdout(), block.Content)

			return err
		},

		DisableAutoGenTag: true,
	}

	return cmd
}
