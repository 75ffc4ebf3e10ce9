// Package importer parses collection exports. CSV and JSON payloads become
// raw string rows; the normalizer decides what the columns mean.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cratedig/internal/domain"
)

// ParseCSV reads a header-rowed CSV into raw rows. Short records are padded
// so a ragged sheet export doesn't abort the whole import.
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty CSV", domain.ErrBadInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}

	var rows []map[string]string
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBadInput, err)
		}

		row := make(map[string]string, len(header))
		empty := true
		for i, col := range header {
			val := ""
			if i < len(fields) {
				val = strings.TrimSpace(fields[i])
			}
			row[col] = val
			if val != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseJSON accepts either a bare array of row objects or an object with a
// "values" array, the two shapes spreadsheet exports produce. Scalar cell
// values are stringified; nested values are ignored.
func ParseJSON(data []byte) ([]map[string]string, error) {
	var direct []map[string]interface{}
	if err := json.Unmarshal(data, &direct); err == nil {
		return stringifyRows(direct), nil
	}

	var wrapped struct {
		Values []map[string]interface{} `json:"values"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Values != nil {
		return stringifyRows(wrapped.Values), nil
	}

	return nil, fmt.Errorf("%w: expected array of objects or {values: [...]}", domain.ErrBadInput)
}

func stringifyRows(in []map[string]interface{}) []map[string]string {
	rows := make([]map[string]string, 0, len(in))
	for _, obj := range in {
		row := make(map[string]string, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case string:
				row[k] = val
			case float64:
				row[k] = trimFloat(val)
			case bool:
				row[k] = fmt.Sprintf("%t", val)
			case nil:
				row[k] = ""
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
