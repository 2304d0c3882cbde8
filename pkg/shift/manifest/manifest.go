// Package manifest reads the ordered (source, target) pair stream that
// drives one batch. Rows come from CSV files whose encoding is detected by
// trial decode: UTF-8 with BOM, plain UTF-8, GBK, then Latin-1. The batch
// drivers consume only the decoded []Entry; nothing else in the engine
// touches raw manifest bytes.
package manifest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Entry is one manifest row. Target defaults to Source when the row has a
// single field. Row is the 1-based row number in the original file.
type Entry struct {
	Source string
	Target string
	Row    int
}

// Result holds the decoded manifest along with the encoding that was used,
// for reporting.
type Result struct {
	Entries  []Entry
	Encoding string
}

// ErrUndecodable indicates that no candidate encoding produced valid text.
var ErrUndecodable = errors.New("manifest not decodable with any supported encoding")

// candidate pairs an encoding name with its decoder. Order matters: the
// first successful decode wins.
type candidate struct {
	name string
	enc  encoding.Encoding
}

var candidates = []candidate{
	{"utf-8-sig", unicode.UTF8BOM},
	{"utf-8", unicode.UTF8},
	{"gbk", simplifiedchinese.GBK},
	{"latin-1", charmap.ISO8859_1},
}

// Read loads and decodes a manifest file.
func Read(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Decode(data)
}

// Decode decodes raw manifest bytes, trying each supported encoding in
// order.
func Decode(data []byte) (*Result, error) {
	for _, c := range candidates {
		decoded, err := decodeWith(data, c.enc)
		if err != nil {
			continue
		}
		entries, err := parseRows(decoded)
		if err != nil {
			continue
		}
		return &Result{Entries: entries, Encoding: c.name}, nil
	}
	return nil, ErrUndecodable
}

// decodeWith runs one decoder over the input and rejects output containing
// the replacement character, which signals bytes invalid for that encoding.
func decodeWith(data []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) || bytes.ContainsRune(out, utf8.RuneError) {
		return "", errors.New("invalid bytes for encoding")
	}
	return string(out), nil
}

// parseRows parses decoded CSV text into entries. Blank rows are discarded,
// one-field rows use the source name as the target, and fields are trimmed.
func parseRows(text string) ([]Entry, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var entries []Entry
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("parsing manifest row %d: %w", row, err)
		}

		source := ""
		target := ""
		if len(record) > 0 {
			source = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			target = strings.TrimSpace(record[1])
		}
		if source == "" && target == "" {
			continue
		}
		if target == "" {
			target = source
		}

		entries = append(entries, Entry{Source: source, Target: target, Row: row})
	}

	return entries, nil
}
