package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var mojibakeRE = regexp.MustCompile(`(?:\x{00C3}.|\x{00C2}.|\x{00E2}.)`)

// DecodeText turns section bytes into text. Valid UTF-8 is used as is;
// otherwise the Windows-1252 reading wins when it scores better (fewer
// replacement characters and mojibake pairs). CRLF becomes "\n".
func DecodeText(b []byte) string {
	var text string
	if utf8.Valid(b) {
		text = string(b)
	} else {
		text = strings.ToValidUTF8(string(b), "�")
		if cp, err := charmap.Windows1252.NewDecoder().Bytes(b); err == nil {
			if alt := string(cp); encodingScore(alt) > encodingScore(text) {
				text = alt
			}
		}
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func encodingScore(s string) int {
	replacements := strings.Count(s, "�")
	mojibake := len(mojibakeRE.FindAllStringIndex(s, -1))
	return -(replacements*4 + mojibake)
}
