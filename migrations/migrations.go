package migrations

import (
	"github.com/flow-hydraulics/sticker-board/migrations/internal/m20261014"
	"github.com/go-gormigrate/gormigrate/v2"
)

func List() []*gormigrate.Migration {
	ms := []*gormigrate.Migration{
		{
			ID:       m20261014.ID,
			Migrate:  m20261014.Migrate,
			Rollback: m20261014.Rollback,
		},
	}
	return ms
}
