package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v8"

	"github.com/bbyas22/QRcode/internal/infrastructure/storage"
)

// ErrImageNotFound 图片不存在
var ErrImageNotFound = errors.New("image not found")

// ImageStore 按记录ID保存二维码图片
type ImageStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

// FileImageStore 把图片保存为 <dir>/<id>.png
type FileImageStore struct {
	dir string
}

// NewFileImageStore 创建文件图片存储
func NewFileImageStore(dir string) *FileImageStore {
	return &FileImageStore{dir: dir}
}

func (s *FileImageStore) path(id string) string {
	return filepath.Join(s.dir, id+".png")
}

// Save 写入图片
func (s *FileImageStore) Save(ctx context.Context, id string, data []byte) error {
	return os.WriteFile(s.path(id), data, 0644)
}

// Load 读取图片
func (s *FileImageStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrImageNotFound
	}
	return data, err
}

// Remove 删除图片，不存在时忽略
func (s *FileImageStore) Remove(ctx context.Context, id string) error {
	return storage.RemoveIfExists(s.path(id))
}

// RedisImageStore 把图片保存在 Redis 键 qrcode:<id> 中，不设过期时间
type RedisImageStore struct {
	Client *redis.Client
	prefix string
}

// NewRedisImageStore 创建 Redis 图片存储
func NewRedisImageStore(client *redis.Client) *RedisImageStore {
	return &RedisImageStore{Client: client, prefix: "qrcode:"}
}

// Save 写入图片
func (s *RedisImageStore) Save(ctx context.Context, id string, data []byte) error {
	return s.Client.Set(ctx, s.prefix+id, data, 0).Err()
}

// Load 读取图片
func (s *RedisImageStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrImageNotFound
	}
	return data, err
}

// Remove 删除图片
func (s *RedisImageStore) Remove(ctx context.Context, id string) error {
	return s.Client.Del(ctx, s.prefix+id).Err()
}
