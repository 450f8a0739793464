package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-services-posts/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
)

// MemoryPostRepository 是进程内 Post 存储。
// 读写由 RWMutex 保护；id 由单调递增计数器分配，删除后不复用。
type MemoryPostRepository struct {
	mu     sync.RWMutex
	posts  map[int64]*po.Post
	order  []int64
	nextID int64
	now    func() time.Time
	log    *log.Helper
}

// NewMemoryPostRepository 构造空的内存存储。
func NewMemoryPostRepository(logger log.Logger) *MemoryPostRepository {
	return &MemoryPostRepository{
		posts:  make(map[int64]*po.Post),
		nextID: 1,
		now:    time.Now,
		log:    log.NewHelper(logger),
	}
}

// List 返回全部 Post 的副本，按插入顺序排列。
func (r *MemoryPostRepository) List(ctx context.Context) ([]*po.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*po.Post, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.posts[id].Clone())
	}
	return out, nil
}

// Create 分配新 id 并保存记录。
func (r *MemoryPostRepository) Create(ctx context.Context, input CreatePostInput) (*po.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &po.Post{
		ID:        r.nextID,
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		CreatedAt: r.now().UTC(),
	}
	r.nextID++
	r.posts[p.ID] = p
	r.order = append(r.order, p.ID)

	r.log.WithContext(ctx).Debugf("created post: id=%d", p.ID)
	return p.Clone(), nil
}

// Get 按 id 查询。
func (r *MemoryPostRepository) Get(ctx context.Context, id int64) (*po.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return p.Clone(), nil
}

// Delete 删除指定记录，不存在时返回 ErrPostNotFound 且不修改存储。
func (r *MemoryPostRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.log.WithContext(ctx).Debugf("deleted post: id=%d", id)
	return nil
}

// Update 合并显式设置的字段，保持 id 与 created_at。
func (r *MemoryPostRepository) Update(ctx context.Context, input UpdatePostInput) (*po.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[input.ID]
	if !ok {
		return nil, ErrPostNotFound
	}
	input.apply(p)

	r.log.WithContext(ctx).Debugf("updated post: id=%d", p.ID)
	return p.Clone(), nil
}

// Ping 始终可用。
func (r *MemoryPostRepository) Ping(context.Context) error {
	return nil
}
