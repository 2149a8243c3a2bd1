package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/demandplan/pkg/domain/dataset"
	"github.com/vsinha/demandplan/pkg/infrastructure/repositories/memory"
)

var (
	sharedOnce    sync.Once
	sharedDataset *dataset.Dataset
	sharedErr     error
)

// generate runs a full generation with fresh catalog repositories
func generate(t *testing.T, seed int64, parallel bool) *dataset.Dataset {
	t.Helper()
	g := NewGenerator(
		GeneratorConfig{Seed: seed, Parallel: parallel},
		zap.NewNop(),
		nil,
		memory.NewProductRepository(len(productSpecs)),
		memory.NewPartnerRepository(len(partnerSpecs)),
	)
	ds, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Failed to generate dataset: %v", err)
	}
	return ds
}

// defaultDataset returns the seed-42 dataset, generated once per test binary
func defaultDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	sharedOnce.Do(func() {
		g := NewGenerator(
			GeneratorConfig{Seed: DefaultSeed},
			zap.NewNop(),
			nil,
			memory.NewProductRepository(len(productSpecs)),
			memory.NewPartnerRepository(len(partnerSpecs)),
		)
		sharedDataset, sharedErr = g.Generate(context.Background())
	})
	if sharedErr != nil {
		t.Fatalf("Failed to generate dataset: %v", sharedErr)
	}
	return sharedDataset
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := BuildCatalog(Today)
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return catalog
}

// records formats every table of a dataset for byte-level comparison
func records(t *testing.T, ds *dataset.Dataset) map[string][][]string {
	t.Helper()
	out := make(map[string][][]string)
	for _, table := range ds.Tables() {
		rows := make([][]string, len(table.Rows))
		for i := range table.Rows {
			record, err := table.Record(i)
			if err != nil {
				t.Fatalf("Failed to format %s row %d: %v", table.Name, i, err)
			}
			rows[i] = record
		}
		out[table.Name] = rows
	}
	return out
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", s, err)
	}
	return d
}
