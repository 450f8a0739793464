package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/lingo-services-posts/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, title, content, published, created_at`

// PostgresPostRepository 基于 posts 表实现 PostBackend。
// 每个操作都在 txmanager 提供的会话内执行，结束时由 Manager 负责提交/回滚并归还连接。
type PostgresPostRepository struct {
	pool      *pgxpool.Pool
	txManager txmanager.Manager
	log       *log.Helper
}

// NewPostgresPostRepository 构造 PostgreSQL 存储。
func NewPostgresPostRepository(pool *pgxpool.Pool, tx txmanager.Manager, logger log.Logger) *PostgresPostRepository {
	return &PostgresPostRepository{
		pool:      pool,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// List 按 id 升序返回全部记录。
func (r *PostgresPostRepository) List(ctx context.Context) ([]*po.Post, error) {
	posts := make([]*po.Post, 0)
	err := r.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		rows, err := sess.Tx().Query(txCtx, `SELECT `+postColumns+` FROM posts ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query posts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPost(rows)
			if err != nil {
				return fmt.Errorf("scan post row: %w", err)
			}
			posts = append(posts, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate post rows: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.WithContext(ctx).Errorf("list posts failed: %v", err)
		return nil, err
	}
	return posts, nil
}

// Create 插入记录并通过 RETURNING 取回数据库生成的 id 与 created_at。
func (r *PostgresPostRepository) Create(ctx context.Context, input CreatePostInput) (*po.Post, error) {
	var created *po.Post
	err := r.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		row := sess.Tx().QueryRow(txCtx, `
			INSERT INTO posts (title, content, published)
			VALUES ($1, $2, $3)
			RETURNING `+postColumns,
			input.Title, input.Content, input.Published,
		)
		p, err := scanPost(row)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		created = p
		return nil
	})
	if err != nil {
		r.log.WithContext(ctx).Errorf("create post failed: %v", err)
		return nil, err
	}

	r.log.WithContext(ctx).Infof("created post: id=%d", created.ID)
	return created, nil
}

// Get 按 id 查询，pgx.ErrNoRows 映射为 ErrPostNotFound。
func (r *PostgresPostRepository) Get(ctx context.Context, id int64) (*po.Post, error) {
	var found *po.Post
	err := r.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		row := sess.Tx().QueryRow(txCtx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
		p, err := scanPost(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPostNotFound
			}
			return fmt.Errorf("query post by id: %w", err)
		}
		found = p
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			r.log.WithContext(ctx).Errorf("get post failed: id=%d err=%v", id, err)
		}
		return nil, err
	}
	return found, nil
}

// Delete 删除指定记录；未命中任何行时返回 ErrPostNotFound。
func (r *PostgresPostRepository) Delete(ctx context.Context, id int64) error {
	err := r.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		var deleted int64
		err := sess.Tx().QueryRow(txCtx, `DELETE FROM posts WHERE id = $1 RETURNING id`, id).Scan(&deleted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPostNotFound
			}
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			r.log.WithContext(ctx).Errorf("delete post failed: id=%d err=%v", id, err)
		}
		return err
	}

	r.log.WithContext(ctx).Infof("deleted post: id=%d", id)
	return nil
}

// Update 使用 COALESCE 实现部分更新：参数为 NULL 时保留原列值。
func (r *PostgresPostRepository) Update(ctx context.Context, input UpdatePostInput) (*po.Post, error) {
	var updated *po.Post
	err := r.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		row := sess.Tx().QueryRow(txCtx, `
			UPDATE posts
			SET
				title = COALESCE($2, title),
				content = COALESCE($3, content),
				published = COALESCE($4, published)
			WHERE id = $1
			RETURNING `+postColumns,
			input.ID, input.Title, input.Content, input.Published,
		)
		p, err := scanPost(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPostNotFound
			}
			return fmt.Errorf("update post: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPostNotFound) {
			r.log.WithContext(ctx).Errorf("update post failed: id=%d err=%v", input.ID, err)
		}
		return nil, err
	}

	r.log.WithContext(ctx).Infof("updated post: id=%d", updated.ID)
	return updated, nil
}

// Ping 检查连接池可用性。
func (r *PostgresPostRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanPost(row pgx.Row) (*po.Post, error) {
	var p po.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}
