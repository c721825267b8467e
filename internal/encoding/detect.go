// Package encoding normalizes uploaded CSV files to UTF-8. Client lists
// arrive from whatever spreadsheet tool the firm or Companies House produced
// them with: Excel on Windows still writes Windows-1252 (the pound sign is
// the usual giveaway) and its "Unicode Text" save is UTF-16 with a BOM.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r so its content reads as UTF-8 whatever the source
// encoding was. A UTF-8 BOM is stripped; UTF-16 (either endianness) is
// decoded; already-valid UTF-8 passes through untouched; everything else is
// sniffed with chardet and decoded, falling back to Windows-1252, the
// de-facto encoding of legacy UK spreadsheet exports.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if t := transformerFor(buf); t != nil {
		return transform.NewReader(br, t), nil
	}

	return br, nil
}

// transformerFor picks a decoder for the sniffed prefix, or nil when the
// content is already UTF-8.
func transformerFor(buf []byte) transform.Transformer {
	if bytes.HasPrefix(buf, bomUTF16LE) {
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}

	if utf8.Valid(buf) {
		return nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return nil
		case "ISO-8859-15":
			return charmap.ISO8859_15.NewDecoder()
		}
	}

	return charmap.Windows1252.NewDecoder()
}
