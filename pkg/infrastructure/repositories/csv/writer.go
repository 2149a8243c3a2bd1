package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/domain/repositories"
)

var _ repositories.DatasetWriter = (*Writer)(nil)

// Writer persists a dataset as CSV files under an output directory. The
// directory is owned by the writer and replaced as a whole on every run.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates a CSV writer rooted at dir
func NewWriter(dir string, logger *zap.Logger) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: filepath.Clean(dir), logger: logger}, nil
}

// Name identifies the sink in logs and events
func (w *Writer) Name() string {
	return "csv"
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// WriteDataset writes every table into a staging directory next to the
// output directory and swaps it in once all files are complete.
func (w *Writer) WriteDataset(ctx context.Context, ds *dataset.Dataset) error {
	parent := filepath.Dir(w.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", w.dir, err)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(w.dir)+"-staging-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	files := 0
	for _, table := range ds.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeTable(staging, table); err != nil {
			return err
		}
		files++
	}

	if err := w.swap(staging); err != nil {
		return err
	}

	w.logger.Info("CSV output written",
		zap.String("dir", w.dir),
		zap.Int("files", files),
	)
	return nil
}

// swap replaces the output directory with staging, restoring the previous
// contents if the final rename fails
func (w *Writer) swap(staging string) error {
	backup := staging + ".previous"
	hadPrevious := false

	if _, err := os.Stat(w.dir); err == nil {
		if err := os.Rename(w.dir, backup); err != nil {
			return fmt.Errorf("failed to move previous output aside: %w", err)
		}
		hadPrevious = true
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat output directory %s: %w", w.dir, err)
	}

	if err := os.Rename(staging, w.dir); err != nil {
		if hadPrevious {
			if restoreErr := os.Rename(backup, w.dir); restoreErr != nil {
				w.logger.Error("Failed to restore previous output",
					zap.String("backup", backup),
					zap.Error(restoreErr),
				)
			}
		}
		return fmt.Errorf("failed to move staging directory into place: %w", err)
	}

	if hadPrevious {
		if err := os.RemoveAll(backup); err != nil {
			w.logger.Warn("Failed to remove previous output", zap.String("backup", backup), zap.Error(err))
		}
	}
	return nil
}

func writeTable(root string, table dataset.Table) error {
	path := filepath.Join(root, filepath.FromSlash(table.FileName()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", table.Name, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Header()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s header: %w", table.Name, err)
	}
	for i := range table.Rows {
		record, err := table.Record(i)
		if err != nil {
			file.Close()
			return err
		}
		if err := writer.Write(record); err != nil {
			file.Close()
			return fmt.Errorf("failed to write %s row %d: %w", table.Name, i+2, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush %s: %w", table.Name, err)
	}
	return file.Close()
}
