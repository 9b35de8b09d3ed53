// Package logreader loads log files into memory for batch analysis. Both
// whole-file JSON arrays and NDJSON (one object per line) are accepted, with
// transparent gzip decompression for .gz files.
package logreader

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hpowernl/weblytics/internal/parser"
	"github.com/hpowernl/weblytics/pkg/models"
)

// LogReader reads log files into entry batches.
type LogReader struct {
	parser  *parser.LogParser
	skipped int
}

// NewLogReader creates a new log reader.
func NewLogReader() *LogReader {
	return &LogReader{parser: parser.NewLogParser()}
}

// Skipped reports how many lines of the last read were dropped as malformed.
func (r *LogReader) Skipped() int {
	return r.skipped
}

// ReadFile loads all entries from a log file.
func (r *LogReader) ReadFile(path string) ([]models.LogEntry, error) {
	file, closeFn, err := r.open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return r.Read(file)
}

// Read loads all entries from a stream. Leading whitespace decides the
// format: '[' means a JSON array, anything else is treated as NDJSON.
func (r *LogReader) Read(src io.Reader) ([]models.LogEntry, error) {
	r.skipped = 0

	br := bufio.NewReaderSize(src, 64*1024)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return []models.LogEntry{}, nil
		}
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if first == '[' {
		return r.readArray(br)
	}
	return r.readLines(br)
}

func (r *LogReader) readArray(src io.Reader) ([]models.LogEntry, error) {
	var raw []map[string]interface{}
	if err := json.NewDecoder(src).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array: %w", err)
	}

	entries := make([]models.LogEntry, 0, len(raw))
	for _, obj := range raw {
		entries = append(entries, r.parser.Normalize(obj))
	}
	return entries, nil
}

func (r *LogReader) readLines(src io.Reader) ([]models.LogEntry, error) {
	scanner := bufio.NewScanner(src)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	entries := make([]models.LogEntry, 0)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := r.parser.ParseLine(line)
		if err != nil {
			r.skipped++
			continue
		}
		entries = append(entries, *entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return entries, nil
}

func (r *LogReader) open(path string) (io.Reader, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, nil, fmt.Errorf("failed to open gzip file: %w", err)
		}
		return gz, func() { gz.Close(); file.Close() }, nil
	}

	return file, func() { file.Close() }, nil
}

// peekNonSpace returns the first non-whitespace byte without consuming input.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for n := 1; ; n++ {
		peeked, err := br.Peek(n)
		if err != nil {
			return 0, err
		}
		c := peeked[n-1]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return c, nil
		}
	}
}
