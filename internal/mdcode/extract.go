package mdcode

import (
	"fmt"
	"strings"
)

type state int

const (
	outside state = iota
	insideBlock
)

// extractor holds the state of one extraction; it is never shared.
type extractor struct {
	state    state
	buf      strings.Builder
	lang     *string
	filename *string
	meta     Meta
	line     int
	blocks   Blocks
}

func (x *extractor) handle(event Event) error {
	switch x.state {
	case outside:
		if event.Kind == FenceOpen {
			x.open(event)
		}

	case insideBlock:
		switch event.Kind {
		case FenceOpen:
			return fmt.Errorf("%w at line %d", ErrNestedFence, event.Line)
		case Text:
			x.buf.WriteString(event.Text)
		case FenceClose:
			x.close()
		}
	}

	return nil
}

func (x *extractor) open(event Event) {
	x.state = insideBlock
	x.buf.Reset()
	x.lang, x.filename = Classify(event.Info)
	x.meta = ParseMeta(event.Info)
	x.line = event.Line
}

func (x *extractor) close() {
	x.blocks = append(x.blocks, &CodeBlock{
		Filename: x.filename,
		Language: x.lang,
		Content:  x.buf.String(),
		Meta:     x.meta,
		Line:     x.line,
	})

	x.state = outside
	x.buf.Reset()
	x.lang, x.filename, x.meta, x.line = nil, nil, nil, 0
}

// ExtractStream consumes the whole stream and returns its code blocks in
// document order. A fence left open when the stream ends is dropped.
func ExtractStream(stream Stream) (Blocks, error) {
	var x extractor

	for {
		event, ok := stream.Next()
		if !ok {
			break
		}

		if err := x.handle(event); err != nil {
			return nil, err
		}
	}

	return x.blocks, nil
}

// Extract parses a Markdown document and returns all of its fenced and
// indented code blocks.
func Extract(source []byte, opts ...StreamOption) (Blocks, error) {
	return ExtractStream(NewStream(source, opts...))
}
