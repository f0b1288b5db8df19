// Package config 加载 vindex 的配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数（通过 BindFlags 绑定）
//  2. 环境变量（VINDEX_*，如 VINDEX_DATABASE_PATH）
//  3. 配置文件（默认 $XDG_CONFIG_HOME/vindex/config.yaml）
//  4. 默认值
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "VINDEX"

type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Scan     ScanConfig     `mapstructure:"scan"     yaml:"scan"`
	Combine  CombineConfig  `mapstructure:"combine"  yaml:"combine"`
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
}

// DatabaseConfig 索引库配置
type DatabaseConfig struct {
	// Path 是 SQLite 索引库文件路径
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=json console"`
}

// ScanConfig 扫描配置
type ScanConfig struct {
	// IgnoredFolders 相对卷根目录的目录路径，大小写不敏感，整个子树都不会被记录
	IgnoredFolders []string `mapstructure:"ignored_folders" yaml:"ignored_folders"`
	// IgnoredFiles 相对卷根目录的文件路径，大小写不敏感
	IgnoredFiles []string `mapstructure:"ignored_files" yaml:"ignored_files"`
}

// CombineConfig 去重合并配置
type CombineConfig struct {
	// TopN 控制台摘要中显示的重复最多的路径数
	TopN int `mapstructure:"top_n" yaml:"top_n" validate:"gt=0"`
	// LogPath 完整分组报告的输出文件
	LogPath string `mapstructure:"log_path" yaml:"log_path" validate:"required"`
}

// ServerConfig 查询服务配置
type ServerConfig struct {
	Address         string        `mapstructure:"address"          yaml:"address"          validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// Load 加载配置
// configPath 为空时使用默认位置，配置文件不存在时使用默认值
// flags 不为 nil 时，显式设置过的命令行参数会覆盖配置文件和环境变量
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// setupViper 配置环境变量和配置文件查找路径
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile 读取配置文件，默认位置的配置文件不存在不算错误
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if configPath != "" && errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", configPath)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// flagKeys 命令行参数名 -> 配置项
var flagKeys = map[string]string{
	"db":         "database.path",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"top":        "combine.top_n",
	"log-file":   "combine.log_path",
	"address":    "server.address",
}

// bindFlags 将显式设置过的命令行参数绑定到配置项
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// normalize 统一大小写和路径分隔符
func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	cfg.Scan.IgnoredFolders = normalizePaths(cfg.Scan.IgnoredFolders)
	cfg.Scan.IgnoredFiles = normalizePaths(cfg.Scan.IgnoredFiles)
}

func normalizePaths(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	return result
}

// getConfigDir 返回配置目录
// 优先使用 XDG_CONFIG_HOME，其次 ~/.config，都不可用时使用当前目录
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "vindex")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "vindex")
}

// DefaultConfigPath 返回默认配置文件路径
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
