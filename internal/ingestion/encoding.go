package ingestion

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Encoding names a text encoding for CSV input.
type Encoding string

const (
	EncodingAuto   Encoding = ""
	EncodingUTF8   Encoding = "utf-8"
	EncodingEUCKR  Encoding = "euc-kr" // also covers cp949 files in practice
	EncodingLatin1 Encoding = "latin-1"
)

// ParseEncoding maps common spellings to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8", "utf-8-sig":
		return EncodingUTF8, nil
	case "euc-kr", "euckr", "cp949", "ks_c_5601-1987":
		return EncodingEUCKR, nil
	case "latin-1", "latin1", "iso-8859-1":
		return EncodingLatin1, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts data to UTF-8. With EncodingAuto it tries UTF-8, then
// EUC-KR, then Latin-1, returning the encoding that was used.
func Decode(data []byte, enc Encoding) ([]byte, Encoding, error) {
	switch enc {
	case EncodingUTF8:
		return bytes.TrimPrefix(data, utf8BOM), EncodingUTF8, nil
	case EncodingEUCKR:
		out, err := decodeWith(korean.EUCKR, data)
		return out, EncodingEUCKR, err
	case EncodingLatin1:
		out, err := decodeWith(charmap.ISO8859_1, data)
		return out, EncodingLatin1, err
	case EncodingAuto:
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}

	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), EncodingUTF8, nil
	}
	if out, err := decodeWith(korean.EUCKR, data); err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
		return out, EncodingEUCKR, nil
	}
	// Latin-1 maps every byte, so it always succeeds.
	out, err := decodeWith(charmap.ISO8859_1, data)
	return out, EncodingLatin1, err
}

func decodeWith(e encoding.Encoding, data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(e.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
