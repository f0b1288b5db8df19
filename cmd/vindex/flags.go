package main

import (
	"errors"
	"fmt"

	"github.com/jimyag/vindex/internal/vindex"
	"github.com/jimyag/vindex/internal/vindex/config"
	"github.com/spf13/pflag"
)

// command 一个子命令的参数
type command struct {
	flags      *pflag.FlagSet
	configPath string
}

// newCommand 创建子命令的 FlagSet，包含所有子命令共用的参数
func newCommand(name, argsUsage string) *command {
	c := &command{
		flags: pflag.NewFlagSet(name, pflag.ContinueOnError),
	}
	c.flags.StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultConfigPath()+")")
	c.flags.String("db", "", "index database path")
	c.flags.String("log-level", "", "log level: debug, info, warn, error")
	c.flags.String("log-format", "", "log format: json, console")
	c.flags.Usage = func() {
		fmt.Fprintf(c.flags.Output(), "Usage: vindex %s [flags]%s\n\nFlags:\n", name, argsUsage)
		c.flags.PrintDefaults()
	}
	return c
}

// parse 解析参数，--help 返回 errHelp，参数错误返回 errUsage
func (c *command) parse(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errHelp
		}
		return errUsage
	}
	return nil
}

// open 加载配置并创建 App
func (c *command) open() (*vindex.App, error) {
	cfg, err := config.Load(c.configPath, c.flags)
	if err != nil {
		return nil, err
	}
	return vindex.New(cfg, vindex.Options{})
}
