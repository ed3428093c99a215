package services

import (
	"context"
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

// 每个模块 10 像素；go-qrcode 默认保留 4 个模块宽的静区
const qrModulePixels = 10

// InterfaceQRCodeService 二维码服务接口
type InterfaceQRCodeService interface {
	Generate(ctx context.Context, id, targetURL string) ([]byte, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

// QRCodeService 生成二维码 PNG 并按记录ID保存
type QRCodeService struct {
	store ImageStore
}

// NewQRCodeService 创建二维码服务
func NewQRCodeService(store ImageStore) *QRCodeService {
	return &QRCodeService{store: store}
}

// EncodePNG 以低纠错级别把 content 编码成 PNG，结果只取决于 content
func EncodePNG(content string) ([]byte, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, err
	}
	return q.PNG(-qrModulePixels)
}

// 1 Generate 生成并保存二维码
func (s *QRCodeService) Generate(ctx context.Context, id, targetURL string) ([]byte, error) {
	png, err := EncodePNG(targetURL)
	if err != nil {
		return nil, storageError("生成二维码失败", err)
	}
	if err := s.store.Save(ctx, id, png); err != nil {
		return nil, storageError("保存二维码失败", err)
	}
	return png, nil
}

// 2 Fetch 读取二维码图片
func (s *QRCodeService) Fetch(ctx context.Context, id string) ([]byte, error) {
	if !isSinglePathElement(id) {
		return nil, notFoundError("二维码不存在")
	}
	png, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			return nil, notFoundError("二维码不存在")
		}
		return nil, storageError("读取二维码失败", err)
	}
	return png, nil
}

// 3 Remove 删除二维码图片，不存在时忽略
func (s *QRCodeService) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return storageError("删除二维码失败", err)
	}
	return nil
}
