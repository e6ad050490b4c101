package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/fitroutine/internal/errors"
)

// migrateTo makes the live schema match schemaDefinition declaratively.
//
// The target schema is created in a scratch in-memory database attached as "schemaTarget" and the two
// sqlite_schema tables are diffed:
//
//   - tables missing from the target are dropped and new ones created,
//   - changed tables are rebuilt with the generalized ALTER TABLE procedure of
//     https://www.sqlite.org/lang_altertable.html#otheralter, copying the columns both versions share,
//   - triggers and indexes are dropped, created or recreated to match.
//
// See https://david.rothlis.net/declarative-schema-migration-for-sqlite/.
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) (err error) {
	start := time.Now()

	detach, err := db.attachSchemaTarget(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach schema target: %w", err)
	}
	defer detach()

	// Foreign keys can only be toggled outside a transaction.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		_, fkErr := db.ReadWrite.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON")
		if fkErr != nil {
			err = errors.Join(err, errors.Wrap(fkErr, "re-enable foreign keys"))
		}
	}()

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		m := migration{tx: tx, logger: db.logger}
		if err = m.tables(ctx); err != nil {
			return fmt.Errorf("migrate tables: %w", err)
		}
		for _, typ := range []string{"trigger", "index"} {
			if err = m.entities(ctx, typ); err != nil {
				return fmt.Errorf("migrate %ss: %w", typ, err)
			}
		}
		var violations []string
		if violations, err = queryColumn[string](ctx, tx, `SELECT "table" FROM pragma_foreign_key_check()`); err != nil {
			return fmt.Errorf("foreign key check: %w", err)
		}
		if len(violations) > 0 {
			return errors.New("foreign key violations after migration",
				slog.String("tables", strings.Join(violations, ",")))
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachSchemaTarget creates the target schema in a scratch database and attaches it to the read-write
// connection. The returned function detaches it.
func (db *Database) attachSchemaTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	target, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// The shared cache database lives as long as a connection to it is open, so target stays open until the
	// schema is attached.
	defer func() {
		if closeErr := target.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target",
				errors.SlogError(errors.Wrap(closeErr, "close schema target")))
		}
	}()
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("create target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", dsn); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}
	return func() {
		_, detachErr := db.ReadWrite.ExecContext(context.WithoutCancel(ctx), "DETACH DATABASE schemaTarget")
		if detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target",
				errors.SlogError(errors.Wrap(detachErr, "detach schema target")))
		}
	}, nil
}

type migration struct {
	tx     *sql.Tx
	logger *slog.Logger
}

// ignoredNames excludes SQLite internals and the Litestream bookkeeping tables from the diff.
const ignoredNames = `AND name NOT LIKE 'sqlite_%' AND name NOT LIKE '_litestream_%'`

func (m migration) exec(ctx context.Context, msg string, query string) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, msg, slog.String("query", query))
	if _, err := m.tx.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, msg, slog.String("query", query))
	}
	return nil
}

func (m migration) tables(ctx context.Context) error {
	dropped, err := queryColumn[string](ctx, m.tx, `SELECT name FROM main.sqlite_schema
WHERE type = 'table' `+ignoredNames+`
  AND name NOT IN (SELECT name FROM schemaTarget.sqlite_schema WHERE type = 'table')`)
	if err != nil {
		return fmt.Errorf("query dropped tables: %w", err)
	}
	for _, name := range dropped {
		if err = m.exec(ctx, "dropping table", fmt.Sprintf("DROP TABLE %s", name)); err != nil {
			return err
		}
	}

	created, err := queryColumn[string](ctx, m.tx, `SELECT sql FROM schemaTarget.sqlite_schema
WHERE type = 'table' `+ignoredNames+`
  AND name NOT IN (SELECT name FROM main.sqlite_schema WHERE type = 'table')`)
	if err != nil {
		return fmt.Errorf("query created tables: %w", err)
	}
	for _, createSQL := range created {
		if err = m.exec(ctx, "creating table", createSQL); err != nil {
			return err
		}
	}

	// Renaming a table quotes its name in sqlite_schema, hence the REPLACE.
	changed, err := queryChanged(ctx, m.tx, "table", `REPLACE(live.sql, '"', '') <> REPLACE(target.sql, '"', '')`)
	if err != nil {
		return fmt.Errorf("query changed tables: %w", err)
	}
	for _, c := range changed {
		if err = m.rebuildTable(ctx, c); err != nil {
			return fmt.Errorf("rebuild table %s: %w", c.name, err)
		}
	}
	return nil
}

func (m migration) rebuildTable(ctx context.Context, c changedEntity) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table", slog.String("table", c.name),
		slog.String("live_sql", c.liveSQL), slog.String("new_sql", c.newSQL))

	tempName := c.name + "_migration_temp"
	if err := m.exec(ctx, "creating table with temporary name",
		strings.Replace(c.newSQL, c.name, tempName, 1)); err != nil {
		return err
	}

	// Quoted so that columns named after SQLite keywords survive.
	columns, err := queryColumn[string](ctx, m.tx, `SELECT '"' || target.name || '"'
FROM pragma_table_info(:table) AS live
JOIN pragma_table_info(:table, 'schemaTarget') AS target ON target.name = live.name`, sql.Named("table", c.name))
	if err != nil {
		return fmt.Errorf("query common columns: %w", err)
	}
	common := strings.Join(columns, ", ")
	if err = m.exec(ctx, "copying rows",
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", tempName, common, common, c.name)); err != nil {
		return err
	}
	if err = m.exec(ctx, "dropping old table", fmt.Sprintf("DROP TABLE %s", c.name)); err != nil {
		return err
	}
	return m.exec(ctx, "renaming table", fmt.Sprintf("ALTER TABLE %s RENAME TO %s", tempName, c.name))
}

// entities synchronises triggers or indexes. typ is the sqlite_schema type.
func (m migration) entities(ctx context.Context, typ string) error {
	keyword := strings.ToUpper(typ)

	dropped, err := queryColumn[string](ctx, m.tx, `SELECT name FROM main.sqlite_schema
WHERE type = :type `+ignoredNames+`
  AND name NOT IN (SELECT name FROM schemaTarget.sqlite_schema WHERE type = :type)`, sql.Named("type", typ))
	if err != nil {
		return fmt.Errorf("query dropped: %w", err)
	}
	for _, name := range dropped {
		if err = m.exec(ctx, "dropping "+typ, fmt.Sprintf("DROP %s %s", keyword, name)); err != nil {
			return err
		}
	}

	created, err := queryColumn[string](ctx, m.tx, `SELECT sql FROM schemaTarget.sqlite_schema
WHERE type = :type `+ignoredNames+`
  AND name NOT IN (SELECT name FROM main.sqlite_schema WHERE type = :type)`, sql.Named("type", typ))
	if err != nil {
		return fmt.Errorf("query created: %w", err)
	}
	for _, createSQL := range created {
		if err = m.exec(ctx, "creating "+typ, createSQL); err != nil {
			return err
		}
	}

	changed, err := queryChanged(ctx, m.tx, typ, "live.sql <> target.sql")
	if err != nil {
		return fmt.Errorf("query changed: %w", err)
	}
	for _, c := range changed {
		if err = m.exec(ctx, "dropping changed "+typ, fmt.Sprintf("DROP %s %s", keyword, c.name)); err != nil {
			return err
		}
		if err = m.exec(ctx, "recreating "+typ, c.newSQL); err != nil {
			return err
		}
	}
	return nil
}

type changedEntity struct {
	name    string
	liveSQL string
	newSQL  string
}

// queryChanged lists entities of typ present in both schemas for which differs holds.
func queryChanged(ctx context.Context, tx *sql.Tx, typ string, differs string) ([]changedEntity, error) {
	rows, err := tx.QueryContext(ctx, `SELECT live.name, live.sql, target.sql
FROM main.sqlite_schema AS live
JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = ?
  AND live.name NOT LIKE 'sqlite_%' AND live.name NOT LIKE '_litestream_%'
  AND `+differs, typ)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var changed []changedEntity
	for rows.Next() {
		var c changedEntity
		if err = rows.Scan(&c.name, &c.liveSQL, &c.newSQL); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		changed = append(changed, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return changed, nil
}

// queryColumn returns the first column of every row of query.
func queryColumn[T any](ctx context.Context, tx *sql.Tx, query string, args ...any) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		var v T
		if err = rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		results = append(results, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return results, nil
}
