package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"catalog/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// RecordRepository persists a complete result set, replacing whatever a
// previous run stored.
type RecordRepository interface {
	Save(ctx context.Context, records domain.ResultSet) error
}

type multiRepository struct {
	repositories []RecordRepository
}

// NewMultiRepository saves to each repository in order and stops at the
// first failure.
func NewMultiRepository(repositories ...RecordRepository) RecordRepository {
	return &multiRepository{
		repositories: repositories,
	}
}

func (m *multiRepository) Save(ctx context.Context, records domain.ResultSet) error {
	for _, r := range m.repositories {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Save(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// writeFile streams encode into a temp file next to path and renames it into
// place, so readers never observe a partially written artifact.
func writeFile(path string, encode func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	log.Infof("💾 Wrote %s", path)
	return nil
}
