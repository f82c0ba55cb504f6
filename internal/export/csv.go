// Package export turns backend listings into CSV files for download.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fiscal-auditor/adminctl/internal/format"
)

// ConvertToCSV renders records as CSV text. The header row is the first
// record's keys; every row follows that order. Only string values containing
// a comma are quoted. Rows are joined by "\n" with no trailing newline.
func ConvertToCSV(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	headers := records[0].Keys()
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, rec := range records {
		fields := make([]string, len(headers))
		for i, h := range headers {
			v, _ := rec.Get(h)
			fields[i] = field(v)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func field(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if strings.Contains(x, ",") {
			return `"` + x + `"`
		}
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteFile writes the CSV for records to dir/filename. The content goes to a
// temporary file first, which is renamed into place or removed on failure.
// It returns the final path.
func WriteFile(dir, filename string, records []Record) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("export: invalid filename %q", filename)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("export: temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.WriteString(ConvertToCSV(records)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("export: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("export: close: %w", err)
	}
	final := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, final); err != nil {
		return "", fmt.Errorf("export: rename: %w", err)
	}
	return final, nil
}

// DoneMessage is the notification text for a finished export of rows
// records written to path, size bytes long.
func DoneMessage(rows int, path string, size int64) string {
	return fmt.Sprintf("Exportados %d processos para %s (%s)", rows, path, format.FormatFileSize(size))
}
