package httpclient

import "testing"

func TestDecideBodyTextJSON(t *testing.T) {
	body, isBinary := decideBody("application/json; charset=utf-8", "", []byte(`{"a":1}`))
	if isBinary {
		t.Fatal("expected JSON to be treated as text")
	}
	if body != `{"a":1}` {
		t.Errorf("body = %q", body)
	}
}

func TestDecideBodyBinaryContentType(t *testing.T) {
	_, isBinary := decideBody("application/pdf", "", []byte("%PDF-1.4"))
	if !isBinary {
		t.Fatal("expected application/pdf to be binary")
	}
}

func TestDecideBodyImageWildcard(t *testing.T) {
	_, isBinary := decideBody("image/png", "", []byte{0x89, 0x50, 0x4e, 0x47})
	if !isBinary {
		t.Fatal("expected image/* to be binary")
	}
}

func TestDecideBodyAttachmentDisposition(t *testing.T) {
	_, isBinary := decideBody("text/plain", "attachment; filename=report.txt", []byte("hello"))
	if !isBinary {
		t.Fatal("expected attachment disposition to force binary")
	}
}

func TestDecideBodyInvalidUTF8FallsBackToBinary(t *testing.T) {
	_, isBinary := decideBody("text/plain", "", []byte{0xff, 0xfe, 0xfd})
	if !isBinary {
		t.Fatal("expected invalid utf-8 text body to fall back to binary")
	}
}

func TestDecideBodyLatin1Charset(t *testing.T) {
	// 0xe9 is "é" in ISO-8859-1.
	body, isBinary := decideBody("text/plain; charset=iso-8859-1", "", []byte{0xe9})
	if isBinary {
		t.Fatal("expected latin1 text to decode, not fall back to binary")
	}
	if body != "é" {
		t.Errorf("body = %q", body)
	}
}
