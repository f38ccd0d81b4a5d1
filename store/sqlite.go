package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rushteam/tastekit/core"
)

// SQLiteDriverName 是纯 Go 的 SQLite 驱动名（modernc.org/sqlite）。
const SQLiteDriverName = "sqlite"

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog_items (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    producer TEXT,
    country TEXT NOT NULL,
    region TEXT,
    milk_type TEXT NOT NULL,
    maturation TEXT NOT NULL,
    flavor_profile TEXT NOT NULL DEFAULT '[]',
    pairings TEXT NOT NULL DEFAULT '[]',
    designation TEXT,
    avg_rating REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_catalog_items_position ON catalog_items(position);
`

const catalogColumns = `id, name, producer, country, region, milk_type, maturation,
    flavor_profile, pairings, designation, avg_rating`

// SQLCatalog 是基于 SQLite 的目录存储。
// 可空列（producer / region / designation）读出为 nil；position 列保存目录顺序。
type SQLCatalog struct {
	db *sql.DB
}

// OpenSQLCatalog 打开（或创建）数据库并建表。path 为 ":memory:" 时使用内存库。
func OpenSQLCatalog(ctx context.Context, path string) (*SQLCatalog, error) {
	db, err := sql.Open(SQLiteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// 内存库每个连接各自独立，只允许一个连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, catalogSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return &SQLCatalog{db: db}, nil
}

var _ core.CatalogAccessor = (*SQLCatalog)(nil)

func (c *SQLCatalog) Close() error {
	return c.db.Close()
}

func (c *SQLCatalog) ListAll(ctx context.Context) ([]*core.CatalogItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+catalogColumns+` FROM catalog_items ORDER BY position, id`)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog: list", err)
	}
	defer rows.Close()

	var out []*core.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (c *SQLCatalog) Get(ctx context.Context, id string) (*core.CatalogItem, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM catalog_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Put 写入或覆盖物品。新物品追加到目录末尾，已有物品保持原位置。
func (c *SQLCatalog) Put(ctx context.Context, items ...*core.CatalogItem) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var next int64
	if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM catalog_items`).Scan(&next); err != nil {
		return err
	}

	for _, it := range items {
		if it == nil || it.ID == "" {
			return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: item id is required")
		}
		flavors, merr := json.Marshal(stringsOrEmpty(it.FlavorProfile))
		if merr != nil {
			return merr
		}
		pairings, merr := json.Marshal(stringsOrEmpty(it.Pairings))
		if merr != nil {
			return merr
		}
		_, eerr := tx.ExecContext(ctx, `
			INSERT INTO catalog_items (id, position, name, producer, country, region, milk_type,
				maturation, flavor_profile, pairings, designation, avg_rating)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				producer = excluded.producer,
				country = excluded.country,
				region = excluded.region,
				milk_type = excluded.milk_type,
				maturation = excluded.maturation,
				flavor_profile = excluded.flavor_profile,
				pairings = excluded.pairings,
				designation = excluded.designation,
				avg_rating = excluded.avg_rating`,
			it.ID, next, it.Name, nullString(it.Producer), it.Country, nullString(it.Region),
			it.MilkType, it.Maturation, string(flavors), string(pairings),
			nullString(it.Designation), it.AvgRating,
		)
		if eerr != nil {
			err = fmt.Errorf("upsert %s: %w", it.ID, eerr)
			return err
		}
		next++
	}
	return tx.Commit()
}

func (c *SQLCatalog) Delete(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(r rowScanner) (*core.CatalogItem, error) {
	var (
		item                          core.CatalogItem
		producer, region, designation sql.NullString
		flavors, pairings             string
	)
	if err := r.Scan(&item.ID, &item.Name, &producer, &item.Country, &region,
		&item.MilkType, &item.Maturation, &flavors, &pairings, &designation, &item.AvgRating); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(flavors), &item.FlavorProfile); err != nil {
		return nil, fmt.Errorf("decode flavor_profile of %s: %w", item.ID, err)
	}
	if err := json.Unmarshal([]byte(pairings), &item.Pairings); err != nil {
		return nil, fmt.Errorf("decode pairings of %s: %w", item.ID, err)
	}
	item.Producer = fromNullString(producer)
	item.Region = fromNullString(region)
	item.Designation = fromNullString(designation)
	return &item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
