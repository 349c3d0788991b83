// Package cmd implements the mdextract command line.
package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ezerfernandes/mdextract/internal/materialize"
	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

type statusFunc = materialize.StatusFunc

type options struct {
	quiet  bool
	hidden bool
	jobs   int
	lang   []string
	file   []string
	meta   map[string]string
	filter filterFunc
	status statusFunc
}

func (opts *options) createStatus(w io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
}

func (opts *options) streamOptions() []mdcode.StreamOption {
	if opts.hidden {
		return []mdcode.StreamOption{mdcode.WithHiddenBlocks()}
	}

	return nil
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdextract",
		Short:         "Extract code blocks from Markdown tutorials",
		Long:          rootHelp,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.createStatus(cmd.ErrOrStderr())

			return nil
		},

		DisableAutoGenTag: true,
	}

	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "don't print progress messages")
	root.PersistentFlags().BoolVar(&opts.hidden, "hidden", false,
		"also extract fences hidden in <!-- <script type=\"text/markdown\"> comments")
	root.PersistentFlags().IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "documents parsed in parallel")

	root.AddCommand(extractCmd(opts), listCmd(opts), showCmd(opts))

	return root
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := &options{} //nolint:exhaustruct
	opts.createStatus(stderr)

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(context.Background())
}

// Execute runs the command line and exits non-zero on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	if err := run(args, os.Stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "mdextract: %v\n", err)

		if errors.Is(err, mdcode.ErrBlockNotFound) {
			os.Exit(exitNotFound)
		}

		os.Exit(1)
	}
}

const exitNotFound = 2
