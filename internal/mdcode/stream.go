package mdcode

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// EventKind tells the extractor what an Event marks in the document.
type EventKind int

const (
	// FenceOpen starts a code region; Event.Info holds its info string,
	// empty for indented blocks.
	FenceOpen EventKind = iota + 1
	// FenceClose ends the current code region.
	FenceClose
	// Text is a verbatim fragment of code.
	Text
)

func (k EventKind) String() string {
	switch k {
	case FenceOpen:
		return "FenceOpen"
	case FenceClose:
		return "FenceClose"
	case Text:
		return "Text"
	default:
		return "EventKind(?)"
	}
}

// Event is a single step of a document as seen by the extractor.
type Event struct {
	Kind EventKind
	Info string
	Text string
	Line int
}

// Stream yields document events in order. Next returns false once the
// document is exhausted.
type Stream interface {
	Next() (Event, bool)
}

type sliceStream struct {
	events []Event
}

// SliceStream replays a fixed list of events.
func SliceStream(events ...Event) Stream {
	return &sliceStream{events: events}
}

func (s *sliceStream) Next() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false //nolint:exhaustruct
	}

	event := s.events[0]
	s.events = s.events[1:]

	return event, true
}

// StreamOption configures [NewStream].
type StreamOption func(*streamConfig)

type streamConfig struct {
	hidden bool
}

// WithHiddenBlocks also surfaces fences wrapped in an HTML comment:
//
//	<!-- <script type="text/markdown">
//	```toml title="Cargo.toml"
//	...
//	```
//	</script> -->
func WithHiddenBlocks() StreamOption {
	return func(cfg *streamConfig) {
		cfg.hidden = true
	}
}

// NewStream parses a Markdown document and returns its code regions as
// events. Everything except fenced, indented and (optionally) hidden code
// blocks is skipped. A fence still open at the end of the document gets no
// FenceClose event.
func NewStream(source []byte, opts ...StreamOption) Stream {
	var cfg streamConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	root := newParser().Parse(text.NewReader(source))

	var events []Event

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.FencedCodeBlock:
			events = appendFenced(events, n, source)

			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			events = appendIndented(events, n, source)

			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			if cfg.hidden {
				events = appendHidden(events, n, source)
			}

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return &sliceStream{events: events}
}

func appendFenced(events []Event, fcb *ast.FencedCodeBlock, source []byte) []Event {
	open := Event{Kind: FenceOpen} //nolint:exhaustruct

	if fcb.Info != nil {
		open.Info = string(fcb.Info.Segment.Value(source))
	}

	if line, ok := fcb.AttributeString(attrLine); ok {
		open.Line, _ = line.(int)
	}

	events = appendLines(append(events, open), fcb.Lines(), source)

	if _, unterminated := fcb.AttributeString(attrUnterminated); unterminated {
		return events
	}

	return append(events, Event{Kind: FenceClose}) //nolint:exhaustruct
}

func appendIndented(events []Event, cb *ast.CodeBlock, source []byte) []Event {
	open := Event{Kind: FenceOpen} //nolint:exhaustruct

	if lines := cb.Lines(); lines.Len() > 0 {
		open.Line = lineAt(source, lines.At(0).Start)
	}

	events = appendLines(append(events, open), cb.Lines(), source)

	return append(events, Event{Kind: FenceClose}) //nolint:exhaustruct
}

func appendLines(events []Event, lines *text.Segments, source []byte) []Event {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		events = append(events, Event{Kind: Text, Text: string(seg.Value(source))}) //nolint:exhaustruct
	}

	return events
}

var (
	reCommentedCodeBlock = regexp.MustCompile(`^\s*(<!--)?\s*<script\s*type=["']text/markdown["']\s*>\s*$`)
	reFences             = regexp.MustCompile("^\\s*(```+|~~~+)")
)

// appendHidden emits a commented-out fence as if it were a regular one.
// The HTML block must consist of the script line, an opening fence, the
// code, and a closing fence; anything else is left alone.
func appendHidden(events []Event, html *ast.HTMLBlock, source []byte) []Event {
	const minLines = 3

	lines := html.Lines()
	if lines.Len() < minLines {
		return events
	}

	script := lines.At(0)
	if !reCommentedCodeBlock.Match(script.Value(source)) {
		return events
	}

	first := lines.At(1)

	loc := reFences.FindIndex(first.Value(source))
	if loc == nil {
		return events
	}

	last := lines.At(lines.Len() - 1)
	if !reFences.Match(last.Value(source)) {
		return events
	}

	info := bytes.TrimSpace(first.Value(source)[loc[1]:])
	events = append(events, Event{Kind: FenceOpen, Info: string(info), Line: lineAt(source, first.Start)}) //nolint:exhaustruct

	for i := 2; i < lines.Len()-1; i++ {
		seg := lines.At(i)

		events = append(events, Event{Kind: Text, Text: string(seg.Value(source))}) //nolint:exhaustruct
	}

	return append(events, Event{Kind: FenceClose}) //nolint:exhaustruct
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

const (
	attrLine         = "mdextract-line"
	attrClosed       = "mdextract-closed"
	attrUnterminated = "mdextract-unterminated"
)

// fenceTracker wraps goldmark's fenced code parser to remember where a fence
// opened and whether its closing delimiter was ever seen. Goldmark closes an
// unterminated fence silently at the end of the document.
type fenceTracker struct {
	parser.BlockParser
}

func (f fenceTracker) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.Position()

	node, state := f.BlockParser.Open(parent, reader, pc)
	if node != nil {
		node.SetAttributeString(attrLine, line+1)
	}

	return node, state
}

func (f fenceTracker) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	state := f.BlockParser.Continue(node, reader, pc)
	if state&parser.Close != 0 {
		node.SetAttributeString(attrClosed, true)
	}

	return state
}

func (f fenceTracker) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	if _, closed := node.AttributeString(attrClosed); !closed {
		if line, _ := reader.PeekLine(); line == nil {
			node.SetAttributeString(attrUnterminated, true)
		}
	}

	f.BlockParser.Close(node, reader, pc)
}

func newParser() parser.Parser {
	blocks := parser.DefaultBlockParsers()

	for i, prioritized := range blocks {
		if bp, ok := prioritized.Value.(parser.BlockParser); ok && bytes.IndexByte(bp.Trigger(), '`') >= 0 {
			blocks[i] = util.Prioritized(fenceTracker{BlockParser: bp}, prioritized.Priority)
		}
	}

	return parser.NewParser(
		parser.WithBlockParsers(blocks...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}
