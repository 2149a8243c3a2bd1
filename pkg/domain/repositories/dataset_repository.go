package repositories

import (
	"context"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
)

// DatasetWriter persists a complete generation run. Implementations must be
// all-or-nothing: on error no table of the run is visible to readers.
type DatasetWriter interface {
	Name() string
	WriteDataset(ctx context.Context, ds *dataset.Dataset) error
}
