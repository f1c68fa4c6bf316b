package programme

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads a programme JSON file, either a bare array of records or an
// object with a "records" key.
func Load(path string) ([]ScreeningRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open programme: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode parses programme JSON from a reader.
func Decode(r io.Reader) ([]ScreeningRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read programme: %w", err)
	}

	var records []ScreeningRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return trimRecords(records), nil
	}

	var wrapped struct {
		Records []ScreeningRecord `json:"records"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse programme: %w", err)
	}
	if wrapped.Records == nil {
		return nil, fmt.Errorf("parse programme: no records array found")
	}
	return trimRecords(wrapped.Records), nil
}

func trimRecords(records []ScreeningRecord) []ScreeningRecord {
	for i := range records {
		records[i].Title = strings.TrimSpace(records[i].Title)
		records[i].Director = strings.TrimSpace(records[i].Director)
	}
	return records
}

// Export writes enriched records as pretty-printed JSON. An empty path
// writes to stdout.
func Export(path string, records []EnrichedRecord) error {
	var out io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
