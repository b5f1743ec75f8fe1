package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"catalog/scraper/internal/domain"
)

// TestTypesSeparator joins the tag list into a single cell. Tags that contain
// it cannot be recovered from the table form.
const TestTypesSeparator = ","

var csvHeader = []string{"entityId", "name", "url", "remoteTesting", "adaptiveIrt", "testTypes"}

// TableRow is a record as it appears in the table form.
type TableRow struct {
	EntityID      string
	Name          string
	URL           string
	RemoteTesting bool
	AdaptiveIRT   bool
	TestTypes     string
}

func NewTableRow(r domain.Record) TableRow {
	return TableRow{
		EntityID:      r.EntityID,
		Name:          r.Name,
		URL:           r.URL,
		RemoteTesting: r.RemoteTesting,
		AdaptiveIRT:   r.AdaptiveIRT,
		TestTypes:     strings.Join(r.TestTypes, TestTypesSeparator),
	}
}

func (t TableRow) fields() []string {
	return []string{
		t.EntityID,
		t.Name,
		t.URL,
		strconv.FormatBool(t.RemoteTesting),
		strconv.FormatBool(t.AdaptiveIRT),
		t.TestTypes,
	}
}

type csvRepository struct {
	path string
}

// NewCSVRepository writes the result set as a table with a header row.
func NewCSVRepository(path string) RecordRepository {
	return &csvRepository{
		path: path,
	}
}

func (r *csvRepository) Save(ctx context.Context, records domain.ResultSet) error {
	err := writeFile(r.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, record := range records {
			if err := cw.Write(NewTableRow(record).fields()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("failed to save records to %s: %w", r.path, err)
	}

	return nil
}

// ReadCSV decodes a file produced by the CSV repository.
func ReadCSV(path string) ([]TableRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}
	if strings.Join(lines[0], ",") != strings.Join(csvHeader, ",") {
		return nil, fmt.Errorf("%s has unexpected header %v", path, lines[0])
	}

	rows := make([]TableRow, 0, len(lines)-1)
	for i, line := range lines[1:] {
		remote, err := strconv.ParseBool(line[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid remoteTesting %q: %w", i+2, line[3], err)
		}
		adaptive, err := strconv.ParseBool(line[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid adaptiveIrt %q: %w", i+2, line[4], err)
		}

		rows = append(rows, TableRow{
			EntityID:      line[0],
			Name:          line[1],
			URL:           line[2],
			RemoteTesting: remote,
			AdaptiveIRT:   adaptive,
			TestTypes:     line[5],
		})
	}

	return rows, nil
}
