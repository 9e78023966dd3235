package textract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	horizontalSpace  = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	spaceAroundBreak = regexp.MustCompile(` ?\n ?`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// bulletMarkers start list items in extracted PDF text.
// U+F0B7 and U+F0A7 are the Symbol/Wingdings bullets many generators emit.
var bulletMarkers = map[rune]bool{
	'\u2022': true, // bullet
	'\u25aa': true, // small black square
	'\u25e6': true, // white bullet
	'\u25cf': true, // black circle
	'\uf0b7': true,
	'\uf0a7': true,
}

// Normalize cleans linearized PDF text. It collapses whitespace runs inside a
// line to one space, collapses blank-line runs to a single blank line and
// starts every bullet item on its own line. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = spaceAroundBreak.ReplaceAllString(text, "\n")
	text = breakBeforeBullets(text)
	text = excessBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// breakBeforeBullets inserts a line break before any bullet not already at line start
func breakBeforeBullets(text string) string {
	out := make([]byte, 0, len(text)+16)

	for _, r := range text {
		if bulletMarkers[r] && len(out) > 0 && out[len(out)-1] != '\n' {
			for len(out) > 0 && out[len(out)-1] == ' ' {
				out = out[:len(out)-1]
			}
			if len(out) > 0 {
				out = append(out, '\n')
			}
		}
		out = utf8.AppendRune(out, r)
	}
	return string(out)
}
