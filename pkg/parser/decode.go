package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type Encoding string

const (
	UTF8   Encoding = "utf-8"
	Latin1 Encoding = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns data as a string, reading it as UTF-8 when valid and as
// ISO-8859-1 otherwise.
func DecodeText(data []byte) (string, Encoding, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), UTF8, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode latin-1 text: %w", err)
	}
	return string(out), Latin1, nil
}

// DecodeLines decodes data and splits it into physical lines. Line
// terminators other than \n are left for the trimmer to strip.
func DecodeLines(data []byte) ([]string, Encoding, error) {
	text, enc, err := DecodeText(data)
	if err != nil {
		return nil, "", err
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n"), enc, nil
}
