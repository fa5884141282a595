package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// Driver 是支持的数据库类型
type Driver string

const (
	DriverSqlite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Driver   Driver         `mapstructure:"driver"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite数据库文件的位置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的连接串
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置。Address为空时不使用Redis。
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 定义了写接口的Basic Auth账号。Username为空时不启用。
type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// BackupConfig 定义了定时备份的配置
type BackupConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Directory string        `mapstructure:"directory"`
}

// setDefaults 注册默认值，没有配置文件时也能启动
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", string(DriverSqlite))
	v.SetDefault("database.sqlite.path", "schafkopf.db")
	// 环境变量只能覆盖viper已知的键，因此空值也要注册
	v.SetDefault("database.postgres.dsn", "")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("backup.interval", 6*time.Hour)
	v.SetDefault("backup.directory", "databases")
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	// 1. 先加载 .env（可选），让其中的变量参与后面的环境变量覆盖
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("无法加载 .env 文件: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 2. 设置配置文件名、类型和搜索路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 允许通过环境变量覆盖配置，例如 DATABASE_DRIVER=postgres
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 读取配置文件，找不到文件时使用默认值
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	// 5. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// 6. 将加载的配置赋值给全局变量
	Cfg = &cfg
	return Cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSqlite:
		if c.Database.Sqlite.Path == "" {
			return errors.New("database.sqlite.path 不能为空")
		}
	case DriverPostgres:
		if c.Database.Postgres.DSN == "" {
			return errors.New("database.postgres.dsn 不能为空")
		}
	default:
		return fmt.Errorf("不支持的数据库类型: %q", c.Database.Driver)
	}
	return nil
}

// IsRelease 判断是否运行在生产模式
func (s ServerConfig) IsRelease() bool {
	return s.Mode == "release"
}
