package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationNames 返回内嵌迁移文件名（按字典序）。
func MigrationNames() ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// ApplyMigrations 依次执行内嵌的 SQL 迁移文件。
// 所有语句均为幂等（IF NOT EXISTS），可在每次启动时执行。
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, logger log.Logger) error {
	helper := log.NewHelper(logger)
	names, err := MigrationNames()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		helper.Infof("applied migration: %s", name)
	}
	return nil
}
