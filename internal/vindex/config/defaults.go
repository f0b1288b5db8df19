package config

import (
	"time"

	"github.com/spf13/viper"
)

// 默认忽略的系统目录和文件
var (
	DefaultIgnoredFolders = []string{
		"System Volume Information",
		"$RECYCLE.BIN",
		"$Recycle.Bin",
		"Config.Msi",
	}
	DefaultIgnoredFiles = []string{
		"pagefile.sys",
		"hiberfil.sys",
		"swapfile.sys",
		"DumpStack.log.tmp",
	}
)

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "index.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scan: ScanConfig{
			IgnoredFolders: append([]string(nil), DefaultIgnoredFolders...),
			IgnoredFiles:   append([]string(nil), DefaultIgnoredFiles...),
		},
		Combine: CombineConfig{
			TopN:    100,
			LogPath: "combinator.log",
		},
		Server: ServerConfig{
			Address:         "127.0.0.1:7778",
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

// setDefaults 将默认配置注册到 viper，环境变量只对注册过的键生效
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("scan.ignored_folders", d.Scan.IgnoredFolders)
	v.SetDefault("scan.ignored_files", d.Scan.IgnoredFiles)
	v.SetDefault("combine.top_n", d.Combine.TopN)
	v.SetDefault("combine.log_path", d.Combine.LogPath)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}
