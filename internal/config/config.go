package config

import (
	"net"
	"strconv"
)

const (
	// DefaultPath 是配置文件的固定位置（相对工作目录）。
	DefaultPath = "nebula.toml"

	DefaultAddress     = "127.0.0.1"
	DefaultPort        = 7878
	DefaultPublicDir   = "public"
	DefaultDefaultFile = "index.html"
)

// Config 汇总服务运行所需的全部配置，加载后只读。
type Config struct {
	Server  ServerConfig  `mapstructure:"server" toml:"server"`
	Content ContentConfig `mapstructure:"content" toml:"content"`
}

// ServerConfig 定义监听地址与端口。
type ServerConfig struct {
	Address string `mapstructure:"address" toml:"address"`
	Port    uint16 `mapstructure:"port" toml:"port"`
}

// ContentConfig 定义静态资源根目录与默认文件。
type ContentConfig struct {
	PublicDir   string `mapstructure:"public_dir" toml:"public_dir"`
	DefaultFile string `mapstructure:"default_file" toml:"default_file"`
}

// Default returns the built-in configuration used whenever the file cannot be loaded.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address: DefaultAddress,
			Port:    DefaultPort,
		},
		Content: ContentConfig{
			PublicDir:   DefaultPublicDir,
			DefaultFile: DefaultDefaultFile,
		},
	}
}

// ListenAddr joins address and port into a dialable host:port string.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(int(c.Server.Port)))
}
