package service

import "errors"

// 配置类错误，在任何文件系统 I/O 之前返回
var (
	// ErrNoVolumes 系统中没有可用的卷
	ErrNoVolumes = errors.New("no volumes are available")
	// ErrNothingSelected 没有选择任何卷
	ErrNothingSelected = errors.New("nothing is selected")
	// ErrUnknownVolume 选择的盘符没有对应的卷
	ErrUnknownVolume = errors.New("unknown volume")
)
