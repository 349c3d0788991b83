package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ezerfernandes/mdextract/internal/manifest"
	"github.com/ezerfernandes/mdextract/internal/materialize"
	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"github.com/spf13/cobra"
)

//go:embed help/extract.md
var extractHelp string

func extractCmd(opts *options) *cobra.Command {
	var (
		manifestPath string
		verify       string
		noVerify     bool
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "extract [flags]",
		Aliases: []string{"x"},
		Short:   "Write the code blocks listed in a manifest to their files",
		Long:    extractHelp,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			if cmd.Flag("verify").Changed {
				m.Verify = verify
			}

			if noVerify {
				m.Verify = ""
			}

			m.Hidden = m.Hidden || opts.hidden

			return extractRun(cmd.Context(), m, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", manifest.DefaultFilename, "manifest file")
	cmd.Flags().StringVar(&verify, "verify", "", "shell command run in the manifest directory after extraction")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip the manifest's verify command")

	return cmd
}

func extractRun(ctx context.Context, m *manifest.Manifest, opts *options, stdout, stderr io.Writer) error {
	if err := materialize.Check(m); err != nil {
		return err
	}

	names := make([]string, len(m.Documents))
	for i, doc := range m.Documents {
		names[i] = m.Resolve(doc)
	}

	var streamOpts []mdcode.StreamOption
	if m.Hidden {
		streamOpts = append(streamOpts, mdcode.WithHiddenBlocks())
	}

	docs, err := loadDocuments(ctx, names, nil, opts.jobs, streamOpts...)
	if err != nil {
		return err
	}

	blocks := concat(docs)
	opts.status("found %d code block(s) in %d document(s)\n", len(blocks), len(docs))

	if err := materialize.Run(materialize.OSFS(m.Dir), m, blocks, opts.status); err != nil {
		return err
	}

	if len(m.Verify) == 0 {
		return nil
	}

	dir, err := filepath.Abs(m.Resolve("."))
	if err != nil {
		return err
	}

	opts.status("--- verify: %s ---\n", m.Verify)

	exitCode, err := runCommand(ctx, m.Verify, dir, stdout, stderr)
	if err != nil {
		return err
	}

	if exitCode != 0 {
		return fmt.Errorf("%w: %q exited with %d", errVerifyFailed, m.Verify, exitCode)
	}

	return nil
}

var errVerifyFailed = errors.New("verify command failed")
