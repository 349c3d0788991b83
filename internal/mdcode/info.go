package mdcode

import "strings"

const (
	attrTitle    = "title="
	attrFilename = "filename="
)

// Classify reads the language and target filename declared by a fence info
// string. Both results are nil when nothing is declared; Classify never fails.
//
// Accepted forms:
//
//	rust
//	crowdfunding.rs              (filename, language "rs")
//	rust title="crowdfunding.rs"
//	toml filename='Cargo.toml'
//
// Later title=/filename= attributes override earlier ones, including a
// filename taken from the first word. An attribute with no value (filename=)
// sets the filename to "", which is distinct from nil. A first word that is
// itself an attribute is kept as the language and still sets the filename.
func Classify(info string) (*string, *string) {
	if len(info) == 0 {
		return nil, nil
	}

	words := strings.Fields(info)
	if len(words) == 0 {
		return nil, nil
	}

	var lang, filename *string

	first := words[0]
	if strings.Contains(first, ".") && !isFilenameAttr(first) {
		filename = ptr(first)
		lang = ptr(first[strings.LastIndex(first, ".")+1:])
	} else {
		lang = ptr(first)
	}

	for _, word := range words {
		if value, ok := filenameAttr(word); ok {
			filename = ptr(unquote(value))
		}
	}

	return lang, filename
}

func isFilenameAttr(word string) bool {
	_, ok := filenameAttr(word)

	return ok
}

func filenameAttr(word string) (string, bool) {
	if value, ok := strings.CutPrefix(word, attrTitle); ok {
		return value, true
	}

	return strings.CutPrefix(word, attrFilename)
}

// unquote strips one layer of matching double or single quotes.
func unquote(value string) string {
	const minQuoted = 2

	if len(value) < minQuoted {
		return value
	}

	if q := value[0]; (q == '"' || q == '\'') && value[len(value)-1] == q {
		return value[1 : len(value)-1]
	}

	return value
}

func ptr(s string) *string {
	return &s
}
