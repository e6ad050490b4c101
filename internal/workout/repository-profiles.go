package workout

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/myrjola/fitroutine/internal/sqlite"
)

type sqliteProfileRepository struct {
	baseRepository
}

func newSQLiteProfileRepository(db *sqlite.Database) *sqliteProfileRepository {
	return &sqliteProfileRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Ensure creates the profile and its stats row unless they exist.
func (r *sqliteProfileRepository) Ensure(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (id) VALUES (?) ON CONFLICT DO NOTHING`, id); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profile_stats (profile_id) VALUES (?) ON CONFLICT DO NOTHING`, id); err != nil {
			return fmt.Errorf("insert profile stats: %w", err)
		}
		return nil
	})
}
