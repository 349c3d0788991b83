package cmd

import (
	"fmt"

	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

type filterFunc func(block *mdcode.CodeBlock) bool

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

func matchAny(globs []glob.Glob, value string) bool {
	if len(globs) == 0 {
		return true
	}

	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}

	return false
}

// filter accepts blocks whose language matches any lang pattern, whose
// filename matches any file pattern, and whose attributes match every meta
// pattern. An empty pattern list accepts everything; a block without a
// filename never matches a file pattern.
func filter(lang, file []string, meta map[string]string) (filterFunc, error) {
	langGlobs, err := compileAll(lang)
	if err != nil {
		return nil, err
	}

	fileGlobs, err := compileAll(file)
	if err != nil {
		return nil, err
	}

	metaGlobs := make(map[string]glob.Glob, len(meta))

	for key, pattern := range meta {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q for %s: %w", pattern, key, err)
		}

		metaGlobs[key] = g
	}

	return func(block *mdcode.CodeBlock) bool {
		if !matchAny(langGlobs, block.LanguageOr("")) {
			return false
		}

		if len(fileGlobs) > 0 && (block.Filename == nil || !matchAny(fileGlobs, *block.Filename)) {
			return false
		}

		for key, g := range metaGlobs {
			if !block.Meta.Has(key) || !g.Match(block.Meta.Get(key)) {
				return false
			}
		}

		return true
	}, nil
}

func filterFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringSliceVarP(&opts.lang, "lang", "l", nil, "language glob patterns")
	cmd.Flags().StringSliceVarP(&opts.file, "file", "f", nil, "filename glob patterns")
	cmd.Flags().StringToStringVarP(&opts.meta, "meta", "m", nil, "info string attribute glob patterns")
}

func compileFilter(opts *options) error {
	var err error

	opts.filter, err = filter(opts.lang, opts.file, opts.meta)

	return err
}
