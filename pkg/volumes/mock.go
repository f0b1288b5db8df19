package volumes

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLister 是 Lister 的 mock 实现
// 用于测试，不依赖真实挂载的卷
type MockLister struct {
	mock.Mock
}

// NewMockLister 创建新的 MockLister
func NewMockLister() *MockLister {
	return &MockLister{}
}

// List 实现 Lister 接口
func (m *MockLister) List(ctx context.Context) ([]Volume, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]Volume), args.Error(1)
	}
	return nil, args.Error(1)
}
