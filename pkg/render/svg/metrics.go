package svg

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	defaultFontSize = 14.0
	fontCharWidth   = 0.55
	fontLineHeight  = 1.2
)

// TextSize returns the approximate rendered width and height of s.
func TextSize(s string, fontSize float64) (w, h float64) {
	n := utf8.RuneCountInString(s)
	return float64(n) * fontSize * fontCharWidth, fontSize * fontLineHeight
}

// EscapeXML escapes s for use as XML character data or attribute value.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
