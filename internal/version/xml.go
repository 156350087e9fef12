package version

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// firstTagValue scans an XML document for the first element whose local name
// matches tag and returns its trimmed text content. Matching on the local
// name makes the lookup tolerant of default namespaces: real MSBuild files
// are inconsistent about declaring xmlns on the root, so the same tag may
// arrive qualified or unqualified. Empty elements are skipped so that a later
// populated occurrence still wins.
func firstTagValue(data []byte, tag string) (string, bool) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF and malformed XML both mean the tag is not recoverable
			return "", false
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != tag {
			continue
		}
		var value string
		if err := dec.DecodeElement(&value, &se); err != nil {
			return "", false
		}
		if v := strings.TrimSpace(value); v != "" {
			return v, true
		}
	}
}

// replaceTagValue substitutes the text content of every <tag>...</tag>
// occurrence in raw document text and reports how many were rewritten.
//
// The write path is deliberately textual rather than parse-and-reserialize:
// re-serializing an MSBuild file loses comments, attribute order, the byte
// order mark and the original indentation, all of which must survive a
// version bump untouched.
func replaceTagValue(data []byte, tag, value string) ([]byte, int) {
	re := regexp.MustCompile(fmt.Sprintf(`(<%s(?:\s[^>]*)?>)[^<]*(</%s>)`, regexp.QuoteMeta(tag), regexp.QuoteMeta(tag)))
	matches := re.FindAllSubmatchIndex(data, -1)
	if len(matches) == 0 {
		return data, 0
	}

	// Splice the value in by hand. ReplaceAll treats the replacement as an
	// expansion template, so a "$" in the value would be read as a capture
	// reference instead of written verbatim.
	var out bytes.Buffer
	out.Grow(len(data) + len(matches)*len(value))
	last := 0
	for _, m := range matches {
		openEnd, closeStart := m[3], m[4]
		out.Write(data[last:openEnd])
		out.WriteString(value)
		last = closeStart
	}
	out.Write(data[last:])
	return out.Bytes(), len(matches)
}
