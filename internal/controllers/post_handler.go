package controllers

import (
	"context"
	"fmt"
	"io"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-posts/internal/controllers/dto"
	"github.com/bionicotaku/lingo-services-posts/internal/models/vo"
	"github.com/bionicotaku/lingo-services-posts/internal/services"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// 请求错误原因。
const (
	ReasonInvalidPost     = "INVALID_POST"
	ReasonInvalidPostID   = "INVALID_POST_ID"
	ReasonPayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// MaxRequestBodyBytes 是 POST/PUT 请求体的上限。
const MaxRequestBodyBytes = 1 << 20

// Operation 名称，供日志与指标中间件标识路由。
const (
	OperationRoot       = "/posts.v1.PostService/Root"
	OperationListPosts  = "/posts.v1.PostService/ListPosts"
	OperationCreatePost = "/posts.v1.PostService/CreatePost"
	OperationGetPost    = "/posts.v1.PostService/GetPost"
	OperationDeletePost = "/posts.v1.PostService/DeletePost"
	OperationUpdatePost = "/posts.v1.PostService/UpdatePost"
)

const greetingMessage = "Hello World"

// PostHandler 负责处理 Post 资源的 HTTP 请求。
type PostHandler struct {
	*BaseHandler
	svc *services.PostService
}

// NewPostHandler 构造 PostHandler。
func NewPostHandler(svc *services.PostService, base *BaseHandler) *PostHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &PostHandler{BaseHandler: base, svc: svc}
}

// RegisterPostHTTPServer 将 Post 路由注册到 Kratos HTTP Server。
func RegisterPostHTTPServer(s *http.Server, h *PostHandler) {
	r := s.Route("/")
	r.GET("/", h.root)
	r.GET("/posts", h.listPosts)
	r.POST("/posts", h.createPost)
	r.GET("/posts/{id}", h.getPost)
	r.DELETE("/posts/{id}", h.deletePost)
	r.PUT("/posts/{id}", h.updatePost)
}

func (h *PostHandler) root(ctx http.Context) error {
	http.SetOperation(ctx, OperationRoot)
	out, err := ctx.Middleware(func(_ context.Context, _ any) (any, error) {
		return &vo.Greeting{Message: greetingMessage}, nil
	})(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *PostHandler) listPosts(ctx http.Context) error {
	http.SetOperation(ctx, OperationListPosts)
	out, err := ctx.Middleware(func(c context.Context, _ any) (any, error) {
		timeoutCtx, cancel := h.WithTimeout(c, HandlerTypeQuery)
		defer cancel()
		return h.svc.ListPosts(timeoutCtx)
	})(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *PostHandler) createPost(ctx http.Context) error {
	http.SetOperation(ctx, OperationCreatePost)
	body, err := readBody(ctx)
	if err != nil {
		return err
	}
	input, err := dto.ToCreatePostInput(body)
	if err != nil {
		return errors.New(stdhttp.StatusUnprocessableEntity, ReasonInvalidPost, err.Error())
	}

	out, err := ctx.Middleware(func(c context.Context, _ any) (any, error) {
		timeoutCtx, cancel := h.WithTimeout(c, HandlerTypeCommand)
		defer cancel()
		return h.svc.CreatePost(timeoutCtx, input)
	})(ctx, input)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusCreated, out)
}

func (h *PostHandler) getPost(ctx http.Context) error {
	http.SetOperation(ctx, OperationGetPost)
	id, err := dto.ParsePostID(ctx.Vars().Get("id"))
	if err != nil {
		return errors.New(stdhttp.StatusUnprocessableEntity, ReasonInvalidPostID, err.Error())
	}

	out, err := ctx.Middleware(func(c context.Context, _ any) (any, error) {
		timeoutCtx, cancel := h.WithTimeout(c, HandlerTypeQuery)
		defer cancel()
		return h.svc.GetPost(timeoutCtx, id)
	})(ctx, id)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func (h *PostHandler) deletePost(ctx http.Context) error {
	http.SetOperation(ctx, OperationDeletePost)
	id, err := dto.ParsePostID(ctx.Vars().Get("id"))
	if err != nil {
		return errors.New(stdhttp.StatusUnprocessableEntity, ReasonInvalidPostID, err.Error())
	}

	_, err = ctx.Middleware(func(c context.Context, _ any) (any, error) {
		timeoutCtx, cancel := h.WithTimeout(c, HandlerTypeCommand)
		defer cancel()
		return nil, h.svc.DeletePost(timeoutCtx, id)
	})(ctx, id)
	if err != nil {
		return err
	}
	// Result 会在写入 body 时才落盘状态码，空响应需直接写头。
	ctx.Response().WriteHeader(stdhttp.StatusNoContent)
	return nil
}

func (h *PostHandler) updatePost(ctx http.Context) error {
	http.SetOperation(ctx, OperationUpdatePost)
	id, err := dto.ParsePostID(ctx.Vars().Get("id"))
	if err != nil {
		return errors.New(stdhttp.StatusUnprocessableEntity, ReasonInvalidPostID, err.Error())
	}
	body, err := readBody(ctx)
	if err != nil {
		return err
	}
	input, err := dto.ToUpdatePostInput(id, body)
	if err != nil {
		return errors.New(stdhttp.StatusUnprocessableEntity, ReasonInvalidPost, err.Error())
	}

	out, err := ctx.Middleware(func(c context.Context, _ any) (any, error) {
		timeoutCtx, cancel := h.WithTimeout(c, HandlerTypeCommand)
		defer cancel()
		return h.svc.UpdatePost(timeoutCtx, input)
	})(ctx, input)
	if err != nil {
		return err
	}
	return ctx.Result(stdhttp.StatusOK, out)
}

func readBody(ctx http.Context) ([]byte, error) {
	body, err := io.ReadAll(stdhttp.MaxBytesReader(ctx.Response(), ctx.Request().Body, MaxRequestBodyBytes))
	if err != nil {
		var tooLarge *stdhttp.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New(stdhttp.StatusRequestEntityTooLarge, ReasonPayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return nil, errors.BadRequest(ReasonInvalidPost, "failed to read request body").WithCause(err)
	}
	return body, nil
}
