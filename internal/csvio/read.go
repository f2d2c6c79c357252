// Package csvio reads and writes exam-results CSV files.
//
// Reading tolerates the quirks of files exported from spreadsheets: a
// UTF-8 byte order mark, ragged rows, and non-UTF-8 encodings. Input that
// is not valid UTF-8 is re-decoded once as Latin-1 (ISO 8859-1), which
// maps every byte to a code point and so never fails outright.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as UTF-8 text. Valid UTF-8 passes through untouched;
// anything else is re-decoded as Latin-1.
func Decode(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 decoding accepts all byte values; keep the original
		// bytes if the decoder fails anyway.
		return data
	}
	return decoded
}

// Parse decodes data and parses it as comma-separated rows. The first row
// is the header. Rows may have differing lengths; callers index cells
// through a resolved column mapping.
func Parse(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(Decode(data), utf8BOM)

	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	rows, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}
