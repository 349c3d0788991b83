// Package region reads and replaces named #region/#endregion sections in
// source files, so a code block can be spliced into a file that is otherwise
// maintained by hand.
//
// A marker sits behind a comment token on a line of its own:
//
//	// #region handlers
//	...
//	// #endregion
//
// The closing marker may repeat the region name.
package region

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type markerKind int

const (
	noMarker markerKind = iota
	beginMarker
	endMarker
)

var reName = regexp.MustCompile(`^\w[\w.\-]*$`)

func marker(line []byte) (markerKind, string) {
	fields := strings.Fields(string(line))

	// fields[0] is the comment token
	for i := 1; i < len(fields); i++ {
		var kind markerKind

		switch fields[i] {
		case "#region":
			kind = beginMarker
		case "#endregion":
			kind = endMarker
		default:
			continue
		}

		if i+1 < len(fields) && reName.MatchString(fields[i+1]) {
			return kind, fields[i+1]
		}

		if kind == endMarker {
			return endMarker, ""
		}

		return noMarker, ""
	}

	return noMarker, ""
}

// find returns the body offsets of the named region: from the line after the
// #region marker up to the start of the matching #endregion line.
func find(source []byte, name string) (int, int, error) {
	begin := -1
	offset := 0

	for _, line := range bytes.SplitAfter(source, []byte{'\n'}) {
		next := offset + len(line)
		kind, label := marker(line)

		switch {
		case begin < 0 && kind == beginMarker && label == name:
			begin = next
		case begin >= 0 && kind == endMarker && (label == "" || label == name):
			return begin, offset, nil
		}

		offset = next
	}

	if begin < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMissingRegion, name)
	}

	return 0, 0, fmt.Errorf("%w: %q", ErrMissingEndregion, name)
}

// Read returns the body of the named region.
func Read(source []byte, name string) ([]byte, error) {
	begin, end, err := find(source, name)
	if err != nil {
		return nil, err
	}

	return source[begin:end], nil
}

// Replace returns a copy of source with the body of the named region set to
// value. A missing trailing newline on value is added so the closing marker
// stays on its own line.
func Replace(source []byte, name string, value []byte) ([]byte, error) {
	begin, end, err := find(source, name)
	if err != nil {
		return nil, err
	}

	if len(value) > 0 && value[len(value)-1] != '\n' {
		value = append(append(make([]byte, 0, len(value)+1), value...), '\n')
	}

	res := make([]byte, 0, len(source)-(end-begin)+len(value))
	res = append(res, source[:begin]...)
	res = append(res, value...)
	res = append(res, source[end:]...)

	return res, nil
}

var (
	// ErrMissingRegion is returned when no #region marker carries the name.
	ErrMissingRegion = errors.New("missing #region")

	// ErrMissingEndregion is returned when a #region marker is never closed.
	ErrMissingEndregion = errors.New("missing #endregion")
)
