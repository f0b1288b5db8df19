//go:build !linux && !windows && !darwin

package volumes

import "context"

type unsupportedLister struct{}

// New 创建当前平台的卷枚举器
func New() Lister {
	return unsupportedLister{}
}

func (unsupportedLister) List(context.Context) ([]Volume, error) {
	return nil, ErrUnsupported
}
