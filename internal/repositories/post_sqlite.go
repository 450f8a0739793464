package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-posts/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
)

// SQLitePostRepository 基于嵌入式 SQLite 文件实现 PostBackend。
// created_at 以 RFC3339Nano 文本存储。
type SQLitePostRepository struct {
	db  *sql.DB
	now func() time.Time
	log *log.Helper
}

// NewSQLitePostRepository 构造 SQLite 存储。db 需已完成 Schema 初始化。
func NewSQLitePostRepository(db *sql.DB, logger log.Logger) *SQLitePostRepository {
	return &SQLitePostRepository{
		db:  db,
		now: time.Now,
		log: log.NewHelper(logger),
	}
}

// List 按 id 升序返回全部记录。
func (r *SQLitePostRepository) List(ctx context.Context) ([]*po.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY id`)
	if err != nil {
		r.log.WithContext(ctx).Errorf("list posts failed: %v", err)
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*po.Post, 0)
	for rows.Next() {
		p, err := scanSQLitePost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}
	return posts, nil
}

// Create 插入记录并返回存储后的完整行。
func (r *SQLitePostRepository) Create(ctx context.Context, input CreatePostInput) (*po.Post, error) {
	createdAt := r.now().UTC().Format(time.RFC3339Nano)
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, published, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+postColumns,
		input.Title, input.Content, input.Published, createdAt,
	)
	p, err := scanSQLitePost(row)
	if err != nil {
		r.log.WithContext(ctx).Errorf("create post failed: %v", err)
		return nil, fmt.Errorf("insert post: %w", err)
	}

	r.log.WithContext(ctx).Infof("created post: id=%d", p.ID)
	return p, nil
}

// Get 按 id 查询。
func (r *SQLitePostRepository) Get(ctx context.Context, id int64) (*po.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanSQLitePost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		r.log.WithContext(ctx).Errorf("get post failed: id=%d err=%v", id, err)
		return nil, fmt.Errorf("query post by id: %w", err)
	}
	return p, nil
}

// Delete 删除指定记录；受影响行数为 0 时返回 ErrPostNotFound。
func (r *SQLitePostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		r.log.WithContext(ctx).Errorf("delete post failed: id=%d err=%v", id, err)
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}

	r.log.WithContext(ctx).Infof("deleted post: id=%d", id)
	return nil
}

// Update 使用 COALESCE 实现部分更新。
func (r *SQLitePostRepository) Update(ctx context.Context, input UpdatePostInput) (*po.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE posts
		SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			published = COALESCE(?, published)
		WHERE id = ?
		RETURNING `+postColumns,
		nullableString(input.Title), nullableString(input.Content), nullableBool(input.Published), input.ID,
	)
	p, err := scanSQLitePost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		r.log.WithContext(ctx).Errorf("update post failed: id=%d err=%v", input.ID, err)
		return nil, fmt.Errorf("update post: %w", err)
	}

	r.log.WithContext(ctx).Infof("updated post: id=%d", p.ID)
	return p, nil
}

// Ping 检查数据库可用性。
func (r *SQLitePostRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePost(row sqlScanner) (*po.Post, error) {
	var (
		p         po.Post
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	p.CreatedAt = ts
	return &p, nil
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullableBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
