// Package loader ingests CSV/GeoJSON reference datasets into the relational
// store, tolerating messy source data: rows that cannot be normalized or
// resolved are counted and skipped, never abort a batch.
package loader

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one normalized CSV record keyed by column name.
type Row map[string]string

// Table is a parsed CSV file.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the header carried the named column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// openDataset opens a plain or gzip-compressed CSV file.
func openDataset(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return &gzipDataset{gz: gz, file: f}, nil
}

type gzipDataset struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipDataset) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipDataset) Close() error {
	g.gz.Close()
	return g.file.Close()
}

// ReadCSV parses a comma- or semicolon-delimited UTF-8 file, gzipped or not.
// All cells are trimmed. A required column missing from the header is fatal
// for the dataset; a row missing a value in a required column is silently
// dropped.
func ReadCSV(path string, requiredColumns []string) (*Table, error) {
	src, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer func() { src.Close() }()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	// Semicolon-delimited exports show up as a single header cell.
	if len(header) == 1 && strings.Contains(header[0], ";") {
		src.Close()
		src, err = openDataset(path)
		if err != nil {
			return nil, err
		}
		reader = csv.NewReader(src)
		reader.Comma = ';'
		reader.FieldsPerRecord = -1
		header, err = reader.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		columns[i] = name
		index[name] = i
	}

	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	table := &Table{Columns: columns}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := make(Row, len(columns))
		for i, name := range columns {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}

		complete := true
		for _, required := range requiredColumns {
			if row[required] == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// DedupeByKey keeps the first row per natural key and drops rows whose key
// is empty. Returns the surviving rows and the number dropped.
func DedupeByKey(rows []Row, keyColumn string) ([]Row, int) {
	seen := make(map[string]struct{}, len(rows))
	out := make([]Row, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		key := row[keyColumn]
		if key == "" {
			dropped++
			continue
		}
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}

	return out, dropped
}
