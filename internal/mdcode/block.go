package mdcode

import (
	"errors"
	"fmt"
)

// CodeBlock is one fenced or indented code region of a Markdown document.
// A nil Filename or Language means the info string did not declare one.
type CodeBlock struct {
	Filename *string
	Language *string
	Content  string
	Meta     Meta
	Line     int
}

// FilenameOr returns the block's filename, or def when it has none.
func (b *CodeBlock) FilenameOr(def string) string {
	if b.Filename == nil {
		return def
	}

	return *b.Filename
}

// LanguageOr returns the block's language, or def when it has none.
func (b *CodeBlock) LanguageOr(def string) string {
	if b.Language == nil {
		return def
	}

	return *b.Language
}

// Blocks is the document-ordered result of an extraction.
type Blocks []*CodeBlock

// FindByFilename returns the first block whose filename is exactly name.
// A miss is reported as ErrBlockNotFound; it means the document and the
// caller's expectations have drifted apart.
func (bs Blocks) FindByFilename(name string) (*CodeBlock, error) {
	for _, block := range bs {
		if block.Filename != nil && *block.Filename == name {
			return block, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrBlockNotFound, name)
}

// Filter returns the blocks accepted by keep, in document order.
func (bs Blocks) Filter(keep func(*CodeBlock) bool) Blocks {
	var res Blocks

	for _, block := range bs {
		if keep(block) {
			res = append(res, block)
		}
	}

	return res
}

var (
	// ErrBlockNotFound is returned by [Blocks.FindByFilename] when no block
	// carries the requested filename.
	ErrBlockNotFound = errors.New("code block not found")

	// ErrNestedFence is returned when a stream opens a fence inside another.
	ErrNestedFence = errors.New("nested code fence")
)
