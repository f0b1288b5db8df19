// Package console 提供面向操作者的控制台输出
//
// 进度信息用 Write 在同一行原地刷新（以 "\r" 开头），普通信息用 WriteLine 输出。
// Console 记录当前是否处于行首，WriteLine 会先结束未换行的进度行，避免两者混在一行。
// 写入失败会被忽略，控制台输出不影响扫描和合并流程。
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// clearScreen 清屏并将光标移到左上角
const clearScreen = "\033[H\033[2J"

// Console 控制台输出
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	newLine bool
}

// New 创建 Console
func New(out io.Writer) *Console {
	return &Console{
		out:     out,
		newLine: true,
	}
}

// Discard 返回丢弃所有输出的 Console
func Discard() *Console {
	return New(io.Discard)
}

// WriteLine 输出一行信息，如果当前不在行首会先换行
func (c *Console) WriteLine(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.newLine {
		_, _ = io.WriteString(c.out, "\n")
	}
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
	c.newLine = true
}

// Write 输出信息，前后都不换行
func (c *Console) Write(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.out, format, args...)
	c.newLine = false
}

// Clear 清屏
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.out, clearScreen)
	c.newLine = true
}

// Prompt 输出提示并从 in 读取一行输入，返回去掉首尾空白的内容
// 操作者按下回车后光标已在行首
func (c *Console) Prompt(in *bufio.Reader, format string, args ...any) (string, error) {
	c.Write(format, args...)

	line, err := in.ReadString('\n')

	c.mu.Lock()
	c.newLine = true
	c.mu.Unlock()

	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
