package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"golang.org/x/sync/errgroup"
)

const stdinName = "-"

type document struct {
	name   string
	blocks mdcode.Blocks
}

// loadDocuments extracts every named document, at most jobs at a time. The
// result keeps the order of names. "-" reads stdin, which is consumed once
// before any document is parsed.
func loadDocuments(
	ctx context.Context,
	names []string,
	stdin io.Reader,
	jobs int,
	opts ...mdcode.StreamOption,
) ([]document, error) {
	docs := make([]document, len(names))

	var stdinSource []byte

	if stdin != nil && slices.Contains(names, stdinName) {
		var err error

		if stdinSource, err = io.ReadAll(stdin); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		group.SetLimit(jobs)
	}

	for i, name := range names {
		i, name := i, name

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src := stdinSource

			if name != stdinName || stdin == nil {
				var err error

				if src, err = os.ReadFile(name); err != nil {
					return fmt.Errorf("read document: %w", err)
				}
			}

			blocks, err := mdcode.Extract(src, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			docs[i] = document{name: name, blocks: blocks}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}

func concat(docs []document) mdcode.Blocks {
	var all mdcode.Blocks

	for _, doc := range docs {
		all = append(all, doc.blocks...)
	}

	return all
}

func sources(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}

	return args
}
