// Package repositories 提供数据访问层实现，负责与持久化存储交互。
// 同一套 Post 存储契约由内存、PostgreSQL、SQLite 三种后端实现，启动时按配置选择。
package repositories

import (
	"context"
	"errors"

	"github.com/bionicotaku/lingo-services-posts/internal/models/po"
)

// ErrPostNotFound 表示目标 Post 不存在。
var ErrPostNotFound = errors.New("post not found")

// CreatePostInput 描述创建 Post 所需的字段。
type CreatePostInput struct {
	Title     string
	Content   string
	Published bool
}

// UpdatePostInput 描述部分更新。nil 字段保持原值。
type UpdatePostInput struct {
	ID        int64
	Title     *string
	Content   *string
	Published *bool
}

// Empty 报告输入是否不包含任何待更新字段。
func (in UpdatePostInput) Empty() bool {
	return in.Title == nil && in.Content == nil && in.Published == nil
}

// apply 将已设置字段合并到 p 上（原地修改）。
func (in UpdatePostInput) apply(p *po.Post) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
}

// PostBackend 是所有存储后端共同满足的契约。
//
// 语义：
//   - List 按 id（插入顺序）升序返回全部记录
//   - Get/Delete/Update 在记录不存在时返回 ErrPostNotFound
//   - Update 只覆盖显式设置的字段，id 与 created_at 不变
//   - Ping 用于就绪探针
type PostBackend interface {
	List(ctx context.Context) ([]*po.Post, error)
	Create(ctx context.Context, input CreatePostInput) (*po.Post, error)
	Get(ctx context.Context, id int64) (*po.Post, error)
	Delete(ctx context.Context, id int64) error
	Update(ctx context.Context, input UpdatePostInput) (*po.Post, error)
	Ping(ctx context.Context) error
}
