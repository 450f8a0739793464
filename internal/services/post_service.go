package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-posts/internal/models/po"
	"github.com/bionicotaku/lingo-services-posts/internal/models/vo"
	"github.com/bionicotaku/lingo-services-posts/internal/repositories"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// 错误原因，随 Kratos 错误体的 reason 字段返回给客户端。
const (
	ReasonPostNotFound     = "POST_NOT_FOUND"
	ReasonPostStoreFailed  = "POST_STORE_FAILED"
	ReasonPostStoreTimeout = "POST_STORE_TIMEOUT"
)

// PostStore 定义 PostService 依赖的存储能力。
type PostStore interface {
	List(ctx context.Context) ([]*po.Post, error)
	Create(ctx context.Context, input repositories.CreatePostInput) (*po.Post, error)
	Get(ctx context.Context, id int64) (*po.Post, error)
	Delete(ctx context.Context, id int64) error
	Update(ctx context.Context, input repositories.UpdatePostInput) (*po.Post, error)
}

// CreatePostInput 为服务层创建输入。Published 为 nil 时默认 true。
type CreatePostInput struct {
	Title     string
	Content   string
	Published *bool
}

// UpdatePostInput 为服务层更新输入。nil 字段保持原值。
type UpdatePostInput struct {
	ID        int64
	Title     *string
	Content   *string
	Published *bool
}

// PostService 封装 Post 的 CRUD 用例，并将存储结果映射为 Kratos 错误。
type PostService struct {
	store PostStore
	log   *log.Helper
}

// NewPostService 构造 PostService。
func NewPostService(store PostStore, logger log.Logger) *PostService {
	return &PostService{
		store: store,
		log:   log.NewHelper(logger),
	}
}

// ListPosts 返回全部 Post（插入顺序）。
func (s *PostService) ListPosts(ctx context.Context) (*vo.PostList, error) {
	posts, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "list posts", err)
	}
	return &vo.PostList{Data: vo.NewPosts(posts)}, nil
}

// CreatePost 持久化新 Post 并返回存储后的视图。
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*vo.Post, error) {
	published := true
	if input.Published != nil {
		published = *input.Published
	}

	created, err := s.store.Create(ctx, repositories.CreatePostInput{
		Title:     input.Title,
		Content:   input.Content,
		Published: published,
	})
	if err != nil {
		return nil, s.storeError(ctx, "create post", err)
	}

	s.log.WithContext(ctx).Infof("CreatePost: id=%d", created.ID)
	return vo.NewPost(created), nil
}

// GetPost 按 id 查询。
func (s *PostService) GetPost(ctx context.Context, id int64) (*vo.Post, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, errors.NotFound(ReasonPostNotFound, fmt.Sprintf("post with id: %d was not found", id))
		}
		return nil, s.storeError(ctx, "get post", err)
	}
	return vo.NewPost(p), nil
}

// DeletePost 删除指定 Post。
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return errors.NotFound(ReasonPostNotFound, fmt.Sprintf("post with id: %d does not exist", id))
		}
		return s.storeError(ctx, "delete post", err)
	}

	s.log.WithContext(ctx).Infof("DeletePost: id=%d", id)
	return nil
}

// UpdatePost 合并显式设置的字段，id 保持不变。
func (s *PostService) UpdatePost(ctx context.Context, input UpdatePostInput) (*vo.Post, error) {
	update := repositories.UpdatePostInput{
		ID:        input.ID,
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
	}
	var (
		updated *po.Post
		err     error
	)
	if update.Empty() {
		// 无字段可写时只读取当前记录。
		updated, err = s.store.Get(ctx, input.ID)
	} else {
		updated, err = s.store.Update(ctx, update)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, errors.NotFound(ReasonPostNotFound, fmt.Sprintf("post with id: %d does not exist", input.ID))
		}
		return nil, s.storeError(ctx, "update post", err)
	}

	s.log.WithContext(ctx).Infof("UpdatePost: id=%d", updated.ID)
	return vo.NewPost(updated), nil
}

// storeError 将存储层的非业务错误映射为 504 或 500。
func (s *PostService) storeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		s.log.WithContext(ctx).Warnf("%s timeout: %v", op, err)
		return errors.GatewayTimeout(ReasonPostStoreTimeout, "store timeout")
	}
	s.log.WithContext(ctx).Errorf("%s failed: %v", op, err)
	return errors.InternalServer(ReasonPostStoreFailed, "failed to access post store").WithCause(fmt.Errorf("%s: %w", op, err))
}
