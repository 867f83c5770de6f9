package understat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// errVarNotFound means the page has no script assigning the variable.
var errVarNotFound = errors.New("variable not found")

// extractVar finds `var <name> = JSON.parse('<literal>')` in the page's
// scripts and returns the decoded JSON bytes.
func extractVar(doc *goquery.Document, name string) ([]byte, error) {
	pattern := regexp.MustCompile(`var\s+` + regexp.QuoteMeta(name) + `\s*=\s*JSON\.parse\('([^']*)'\)`)

	var literal string
	found := false
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, name) {
			return true
		}
		if m := pattern.FindStringSubmatch(text); m != nil {
			literal = m[1]
			found = true
			return false
		}
		return true
	})
	if !found {
		return nil, fmt.Errorf("%s: %w", name, errVarNotFound)
	}

	decoded, err := unescapeJS(literal)
	if err != nil {
		return nil, fmt.Errorf("unescape %s: %w", name, err)
	}
	if !json.Valid(decoded) {
		return nil, fmt.Errorf("%s is not valid JSON", name)
	}
	return decoded, nil
}

// unescapeJS decodes the escape sequences Understat uses inside single
// quoted JS string literals. \xNN is a raw byte (multi-byte UTF-8
// characters arrive as consecutive \xNN escapes), \uNNNN a code point.
func unescapeJS(s string) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("dangling escape at offset %d", i)
		}
		i++
		switch s[i] {
		case 'x':
			if i+3 > len(s) {
				return nil, fmt.Errorf("short \\x escape at offset %d", i)
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("bad \\x escape at offset %d: %w", i, err)
			}
			b.WriteByte(byte(n))
			i += 2
		case 'u':
			if i+5 > len(s) {
				return nil, fmt.Errorf("short \\u escape at offset %d", i)
			}
			n, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("bad \\u escape at offset %d: %w", i, err)
			}
			var rb [utf8.UTFMax]byte
			w := utf8.EncodeRune(rb[:], rune(n))
			b.Write(rb[:w])
			i += 4
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '\'', '"', '/':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.Bytes(), nil
}

// flexString accepts a JSON string, number or null. Understat quotes most
// numbers but not all of them, and unplayed fixtures carry null goals.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flexString: unsupported value %s", truncate(data, 40))
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }
