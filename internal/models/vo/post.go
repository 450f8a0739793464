// Package vo 定义视图对象（View Objects），用于向上层传递业务数据。
// VO 对象由 Service 层返回，经 Controller 层编码为 HTTP 响应，隔离内部数据结构。
package vo

import "github.com/bionicotaku/lingo-services-posts/internal/models/po"

// Post 是对外暴露的 Post 视图。
type Post struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// NewPost 从持久化实体构造视图对象。
func NewPost(p *po.Post) *Post {
	if p == nil {
		return nil
	}
	return &Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
	}
}

// NewPosts 批量转换，保持输入顺序；空输入返回空切片而非 nil，保证 JSON 编码为 []。
func NewPosts(posts []*po.Post) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		out = append(out, NewPost(p))
	}
	return out
}

// PostList 是列表接口的响应信封。
type PostList struct {
	Data []*Post `json:"data"`
}
