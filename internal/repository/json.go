package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"catalog/scraper/internal/domain"
)

type jsonRepository struct {
	path string
}

// NewJSONRepository writes the result set as an indented JSON array.
func NewJSONRepository(path string) RecordRepository {
	return &jsonRepository{
		path: path,
	}
}

func (r *jsonRepository) Save(ctx context.Context, records domain.ResultSet) error {
	if records == nil {
		records = domain.ResultSet{}
	}

	err := writeFile(r.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(normalize(records))
	})
	if err != nil {
		return fmt.Errorf("failed to save records to %s: %w", r.path, err)
	}

	return nil
}

// ReadJSON decodes a file produced by the JSON repository.
func ReadJSON(path string) (domain.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var records domain.ResultSet
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return records, nil
}

// normalize makes sure empty tag lists serialize as [] rather than null.
func normalize(records domain.ResultSet) domain.ResultSet {
	out := make(domain.ResultSet, len(records))
	for i, r := range records {
		if r.TestTypes == nil {
			r.TestTypes = []string{}
		}
		out[i] = r
	}
	return out
}
