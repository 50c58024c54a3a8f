package metadata

import (
	"context"
	"database/sql"
	"slices"

	"github.com/dmitrijs2005/scholarsphere/internal/dbx"
)

// Purge removes every entry of the local store in one transaction and
// returns the removed keys in order.
func Purge(ctx context.Context, db *sql.DB) ([]string, error) {
	var keys []string
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		entries, err := repo.List(ctx)
		if err != nil {
			return err
		}
		for k := range entries {
			keys = append(keys, k)
		}
		return repo.Clear(ctx)
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}
