package httpclient

import (
	"mime"
	"strings"
)

// binaryMediaTypes are exact media types (type/subtype, no wildcard)
// treated as binary regardless of any text-ish charset parameter.
var binaryMediaTypes = map[string]bool{
	"application/zip":            true,
	"application/pdf":             true,
	"application/octet-stream":   true,
	"application/msword":         true,
	"application/gzip":           true,
	"application/x-rar-compressed": true,
	// OOXML office formats.
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

var binaryTypePrefixes = []string{"image/", "audio/", "video/"}

// isBinaryContentType reports whether a Content-Type value identifies a
// binary media type.
func isBinaryContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Malformed Content-Type: fall back to a prefix check on the raw
		// value rather than guessing text.
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if binaryMediaTypes[mediaType] {
		return true
	}
	for _, prefix := range binaryTypePrefixes {
		if strings.HasPrefix(mediaType, prefix) {
			return true
		}
	}
	return false
}

// isAttachment reports whether Content-Disposition indicates the body is
// an attachment (rule (b)).
func isAttachment(contentDisposition string) bool {
	disposition, _, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		disposition = strings.ToLower(strings.TrimSpace(contentDisposition))
	}
	return strings.EqualFold(disposition, "attachment")
}

// textCharset extracts the charset parameter from Content-Type, defaulting
// to utf-8, and normalizes a handful of common aliases.
func textCharset(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "utf-8"
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	switch charset {
	case "", "utf8":
		return "utf-8"
	case "latin1":
		return "iso-8859-1"
	default:
		return charset
	}
}

// decideBody classifies a response body as binary or text using three
// rules — explicit binary media type, attachment disposition, or
// non-text-looking payload — and decodes text bodies using the declared
// charset.
func decideBody(contentType, contentDisposition string, raw []byte) (body string, isBinary bool) {
	if isBinaryContentType(contentType) || isAttachment(contentDisposition) {
		return "", true
	}
	// Rule (c): no text media type present and the payload doesn't look
	// like valid text in its declared (or default) charset.
	charset := textCharset(contentType)
	decoded, ok := decodeText(raw, charset)
	if !ok {
		return "", true
	}
	return decoded, false
}
