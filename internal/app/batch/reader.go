package batch

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DDMAL/CantusDB-sub000/internal/config"
	"github.com/DDMAL/CantusDB-sub000/internal/domain"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 4 << 20

// DetectFormat picks the input format from the file extension when format
// is empty.
func DetectFormat(path, format string) (string, error) {
	if format != "" {
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return config.FormatCSV, nil
	case ".jsonl", ".ndjson":
		return config.FormatJSONL, nil
	}
	return "", fmt.Errorf("cannot detect input format of %s: use --format", path)
}

// ReadFile reads chants from path in the given format ("" = by extension).
func ReadFile(path, format string) ([]domain.Chant, error) {
	format, err := DetectFormat(path, format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	switch format {
	case config.FormatCSV:
		return ReadCSV(f)
	case config.FormatJSONL:
		return ReadJSONL(f)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

// ReadCSV reads chants from a CSV with a header row. Columns are matched by
// name (id, text, pre_syllabified, volpiano); others are ignored. Only id
// is required.
func ReadCSV(r io.Reader) ([]domain.Chant, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable column count

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("read header: missing id column")
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var chants []domain.Chant
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		pre, err := parseBool(field(record, "pre_syllabified"))
		if err != nil {
			return nil, fmt.Errorf("line %d: pre_syllabified: %w", line, err)
		}
		chants = append(chants, domain.Chant{
			ID:             strings.TrimSpace(field(record, "id")),
			Text:           field(record, "text"),
			PreSyllabified: pre,
			Volpiano:       field(record, "volpiano"),
		})
	}
	return chants, nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// ReadJSONL reads one JSON chant object per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]domain.Chant, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var chants []domain.Chant
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var c domain.Chant
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		chants = append(chants, c)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d: record exceeds %d bytes", line+1, maxLineSize)
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return chants, nil
}
