package repositories

import (
	"context"
	"fmt"

	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-posts/internal/infrastructure/database"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// NewPostStore 按 data.driver 构造存储后端，并返回释放底层资源的 cleanup。
//
//   - memory: 进程内存储，无外部依赖
//   - postgres: pgxpool + txmanager，auto_migrate 时执行内嵌迁移
//   - sqlite: 单文件数据库，打开时建表
func NewPostStore(ctx context.Context, cfg *loader.Data, logger log.Logger) (PostBackend, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("data configuration is required")
	}
	helper := log.NewHelper(logger)

	switch cfg.Driver {
	case loader.DriverMemory, "":
		helper.Info("post store: memory")
		return NewMemoryPostRepository(logger), func() {}, nil

	case loader.DriverPostgres:
		pool, cleanup, err := database.NewPgxPool(ctx, &cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := database.ApplyMigrations(ctx, pool, logger); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		txCfg := txmanager.Config{
			DefaultTimeout: cfg.Postgres.Transaction.DefaultTimeout.Duration,
			LockTimeout:    cfg.Postgres.Transaction.LockTimeout.Duration,
			MaxRetries:     cfg.Postgres.Transaction.MaxRetries,
		}
		tx, err := txmanager.NewManager(pool, txCfg, txmanager.Dependencies{Logger: logger})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("init tx manager: %w", err)
		}
		helper.Info("post store: postgres")
		return NewPostgresPostRepository(pool, tx, logger), cleanup, nil

	case loader.DriverSQLite:
		db, cleanup, err := database.OpenSQLite(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		helper.Infof("post store: sqlite path=%s", cfg.SQLite.Path)
		return NewSQLitePostRepository(db, logger), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unsupported data.driver %q", cfg.Driver)
	}
}
