package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// ErrNoProfiles is surfaced to the admin as-is; no file is generated.
var ErrNoProfiles = errors.New("no profiles to export")

// ExportFilename embeds the export date, e.g. "profiles_export_2026-08-29.csv".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("profiles_export_%s.csv", now.Format("2006-01-02"))
}

// WriteCSV serializes profiles as UTF-8 comma-delimited text.
//
// The header is the union of field names observed across all profiles in
// first-seen order, not a fixed schema: absent and null fields contribute
// nothing. Cell formatting: empty for null, semicolon-joined and quoted for
// sets, JSON text (quoted, internal quotes doubled) for nested objects,
// quote-escaped text for strings, literal form for other primitives.
func WriteCSV(w io.Writer, profiles []Profile) error {
	if len(profiles) == 0 {
		return ErrNoProfiles
	}

	var header []string
	seen := make(map[string]bool)
	rows := make([]map[string]interface{}, 0, len(profiles))

	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return pkgerrors.Wrap(err, "marshaling profile")
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var row map[string]interface{}
		if err = dec.Decode(&row); err != nil {
			return pkgerrors.Wrap(err, "decoding profile")
		}

		keys, err := orderedKeys(raw)
		if err != nil {
			return pkgerrors.Wrap(err, "reading profile fields")
		}
		for _, k := range keys {
			if row[k] == nil {
				continue // null fields are not "present"
			}
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
		rows = append(rows, row)
	}

	if _, err := io.WriteString(w, strings.Join(header, ",")+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(header))
		for i, k := range header {
			cells[i] = formatCell(row[k])
		}
		if _, err := io.WriteString(w, strings.Join(cells, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []interface{}:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = fmt.Sprint(e)
		}
		return quote(strings.Join(parts, ";"))
	case map[string]interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return quote(fmt.Sprint(t))
		}
		return quote(string(b))
	case string:
		return quote(t)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// orderedKeys walks the top-level object tokens to recover field order,
// which encoding/json maps would otherwise lose.
func orderedKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening {
		return nil, err
	}

	var keys []string
	depth := 0
	expectKey := true
	for dec.More() || depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return keys, err
		}
		switch t := tok.(type) {
		case json.Delim:
			if t == '{' || t == '[' {
				depth++
			} else {
				depth--
			}
			if depth == 0 {
				expectKey = true
			}
		default:
			if depth == 0 {
				if expectKey {
					keys = append(keys, tok.(string))
					expectKey = false
				} else {
					expectKey = true
				}
			}
		}
	}
	return keys, nil
}
