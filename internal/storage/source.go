package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/config"
	"github.com/Veraticus/shopper-segments/internal/model"
)

// Source loads the full transaction table into memory.
type Source interface {
	Load(ctx context.Context) (*model.Table, error)
}

// Open returns the source described by cfg.
func Open(cfg config.DataConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceCSV, "":
		return NewCSVSource(cfg.Path)
	case config.SourceSQLite:
		return NewSQLiteSource(cfg.Path, cfg.Table)
	default:
		return nil, fmt.Errorf("%w: data.source %q", common.ErrInvalidConfig, cfg.Source)
	}
}

func newTable(rows []model.Transaction, origin string) (*model.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyDataset, origin)
	}

	common.LogInfo("Loaded transactions", common.Fields{
		"source": origin,
		"rows":   len(rows),
	})

	return model.NewTable(rows), nil
}
