package mdcode

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// Meta holds the key=value attributes of a fence info string.
type Meta map[string]string

// Get returns the attribute value for key, or an empty string when it is
// missing or the Meta is nil.
func (m Meta) Get(key string) string {
	if m == nil {
		return ""
	}

	return m[key]
}

// Has reports whether the attribute is present, even with an empty value.
func (m Meta) Has(key string) bool {
	_, has := m[key]

	return has
}

var (
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}\s*$`)
)

// ParseMeta collects every key=value word of an info string. Quoting follows
// shell rules, so title="hello world.rs" yields a single value. The
// attributes may also be a JSON object after the language,
// as in go {"title": "main.go", "line": 3}; non-string values are kept in
// their printed form and null becomes "". A string that cannot be split or
// decoded (an unbalanced quote, say) yields an empty Meta.
func ParseMeta(info string) Meta {
	meta := make(Meta)

	if len(strings.TrimSpace(info)) == 0 {
		return meta
	}

	if obj, ok := jsonObject(info); ok {
		return parseJSONMeta(obj)
	}

	if subs := reBrackets.FindStringSubmatch(info); subs != nil {
		info = subs[1]
	}

	words, err := shlex.Split(info)
	if err != nil {
		return meta
	}

	for _, word := range words {
		if idx := strings.IndexRune(word, '='); idx > 0 {
			meta[word[:idx]] = word[idx+1:]
		}
	}

	return meta
}

// jsonObject returns the JSON object of an info string, either the whole
// string or whatever follows the language word.
func jsonObject(info string) (string, bool) {
	if reJSON.MatchString(info) {
		return info, true
	}

	trimmed := strings.TrimSpace(info)
	if idx := strings.IndexAny(trimmed, " \t"); idx > 0 && reJSON.MatchString(trimmed[idx:]) {
		return trimmed[idx:], true
	}

	return "", false
}

func parseJSONMeta(obj string) Meta {
	var raw map[string]interface{}

	meta := make(Meta)

	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return meta
	}

	for key, value := range raw {
		switch v := value.(type) {
		case string:
			meta[key] = v
		case nil:
			meta[key] = ""
		default:
			meta[key] = fmt.Sprint(v)
		}
	}

	return meta
}
