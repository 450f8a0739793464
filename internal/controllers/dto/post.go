// Package dto 提供控制器层的请求解析与响应构造工具。
// 请求体先经 JSON Schema 校验，再映射为服务层输入。
package dto

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-posts/internal/services"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed schemas/create_post.json
	createPostSchemaJSON string
	//go:embed schemas/update_post.json
	updatePostSchemaJSON string

	createPostSchema = jsonschema.MustCompileString("create_post.json", createPostSchemaJSON)
	updatePostSchema = jsonschema.MustCompileString("update_post.json", updatePostSchemaJSON)
)

// ErrEmptyBody 表示请求体为空。
var ErrEmptyBody = errors.New("request body is empty")

// postPayload 是 POST/PUT 请求体中被识别的字段；键名区分大小写，未知字段与 id 被忽略。
type postPayload struct {
	Title     *string
	Content   *string
	Published *bool
}

// ToCreatePostInput 校验创建请求体并映射为服务层输入。
func ToCreatePostInput(body []byte) (services.CreatePostInput, error) {
	payload, err := decodePayload(body, createPostSchema)
	if err != nil {
		return services.CreatePostInput{}, err
	}
	return services.CreatePostInput{
		Title:     *payload.Title,
		Content:   *payload.Content,
		Published: payload.Published,
	}, nil
}

// ToUpdatePostInput 校验更新请求体并映射为服务层输入；未出现的字段保持 nil。
func ToUpdatePostInput(id int64, body []byte) (services.UpdatePostInput, error) {
	payload, err := decodePayload(body, updatePostSchema)
	if err != nil {
		return services.UpdatePostInput{}, err
	}
	return services.UpdatePostInput{
		ID:        id,
		Title:     payload.Title,
		Content:   payload.Content,
		Published: payload.Published,
	}, nil
}

// ParsePostID 将路径参数解析为整数 id。
func ParsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q: must be an integer", raw)
	}
	return id, nil
}

func decodePayload(body []byte, schema *jsonschema.Schema) (*postPayload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %s", describeValidation(err))
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return nil, errors.New("schema validation failed: /: expected object")
	}
	payload := &postPayload{}
	if v, ok := fields["title"].(string); ok {
		payload.Title = &v
	}
	if v, ok := fields["content"].(string); ok {
		payload.Content = &v
	}
	if v, ok := fields["published"].(bool); ok {
		payload.Published = &v
	}
	return payload, nil
}

// describeValidation 提取最深层的校验原因，避免把整棵错误树暴露给客户端。
func describeValidation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("%s: %s", location, ve.Message)
}
