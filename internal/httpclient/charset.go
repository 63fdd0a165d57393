package httpclient

import "unicode/utf8"

// decodeText decodes raw bytes as text using charset. Only "utf-8" and
// "iso-8859-1" (latin1) are understood; any other declared charset falls
// back to utf-8. ok=false signals the bytes are not valid text under the
// chosen charset, triggering the binary fallback.
//
// iso-8859-1 is a direct one-to-one byte-to-codepoint mapping, so this is
// implemented by hand rather than pulling in a charset library.
func decodeText(raw []byte, charset string) (string, bool) {
	if charset == "iso-8859-1" {
		return decodeLatin1(raw), true
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func decodeLatin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
