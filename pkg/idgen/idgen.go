package idgen

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator 递增 ID 生成器
// 使用 Sonyflake 算法生成全局唯一且递增的 ID
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// DefaultGenerator 返回默认的 ID 生成器
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = New()
	})
	return defaultGenerator
}

// New 创建新的 ID 生成器
func New() *Generator {
	startTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: startTime,
	})
	if sf == nil {
		// 默认的机器 ID 取自私有 IPv4 地址，没有私有地址时退回到进程号
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: startTime,
			MachineID: pidMachineID,
		})
	}

	return &Generator{
		sf: sf,
	}
}

func pidMachineID() (uint16, error) {
	return uint16(os.Getpid()), nil
}

// GenerateSessionID 生成扫描会话 ID
func (g *Generator) GenerateSessionID() (uint64, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return 0, fmt.Errorf("generate session ID: %w", err)
	}
	return id, nil
}

// GenerateSessionID 使用默认生成器生成扫描会话 ID
func GenerateSessionID() (uint64, error) {
	return DefaultGenerator().GenerateSessionID()
}

// GenerateRequestID 生成查询服务的请求 ID，格式为 req-{base36}
func (g *Generator) GenerateRequestID() (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("generate request ID: %w", err)
	}
	return "req-" + strconv.FormatUint(id, 36), nil
}
