package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Marshal serializes a record as indented JSON using indent spaces per
// level. HTML characters are kept literal and every non-ASCII character is
// written as a \u escape, so the output is plain ASCII.
func Marshal(rec *Record, indent int) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))

	err := enc.Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %q: %w", rec.Name, err)
	}

	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites every non-ASCII rune as a \uXXXX escape, using
// surrogate pairs above the basic multilingual plane. Encoded JSON only
// carries non-ASCII runes inside strings, so the result stays valid JSON.
func escapeNonASCII(data []byte) []byte {
	if isASCII(data) {
		return data
	}

	var out bytes.Buffer

	out.Grow(len(data) + len(data)/4)

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]

		switch {
		case r < utf8.RuneSelf:
			out.WriteByte(byte(r))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, hi, lo)
		default:
			fmt.Fprintf(&out, `\u%04x`, r)
		}
	}

	return out.Bytes()
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
