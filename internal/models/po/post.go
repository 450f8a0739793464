// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射数据库表结构，不直接暴露给上层业务逻辑。
package po

import "time"

// Post 表示 posts 表的数据库实体。
type Post struct {
	ID        int64     `db:"id"`         // 主键（自增）
	Title     string    `db:"title"`      // 标题（必填）
	Content   string    `db:"content"`    // 正文（必填）
	Published bool      `db:"published"`  // 是否发布，默认 true
	CreatedAt time.Time `db:"created_at"` // 记录创建时间
}

// Clone 返回 Post 的副本，避免调用方修改存储层持有的实例。
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
