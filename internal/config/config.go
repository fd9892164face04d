package config

import (
	"github.com/blues/taskhub/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Frontend  FrontendConfig  `mapstructure:"frontend"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Lockout   LockoutConfig   `mapstructure:"lockout"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// JWTConfig 令牌配置
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`            // 签名密钥
	AccessTTLMin    int    `mapstructure:"access_ttl_min"`    // 访问令牌有效期（分钟）
	RefreshTTLHours int    `mapstructure:"refresh_ttl_hours"` // 刷新令牌有效期（小时）
	CacheTTLMin     int    `mapstructure:"cache_ttl_min"`     // 令牌缓存有效期（分钟）
	CacheCapacity   int    `mapstructure:"cache_capacity"`    // 令牌缓存容量
}

// SMTPConfig 邮件发送配置
type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"` // 未启用时只记录日志不发送
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// StorageConfig 文件存储配置
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`  // 上传文件目录
	MaxSizeMB int64  `mapstructure:"max_size_mb"` // 单文件大小上限（MB）
}

type FrontendConfig struct {
	BaseURL string `mapstructure:"base_url"` // 邮件和通知里的链接前缀
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	ScanIntervalSec int `mapstructure:"scan_interval_sec"` // 截止时间扫描间隔（秒）
	DigestHour      int `mapstructure:"digest_hour"`       // 每日汇总发送的整点（本地时间）
}

// LockoutConfig 登录锁定策略配置
type LockoutConfig struct {
	Threshold   int `mapstructure:"threshold"`    // 触发锁定的失败次数
	DurationMin int `mapstructure:"duration_min"` // 锁定时长（分钟）
}

// NotifyConfig 通知分发配置
type NotifyConfig struct {
	PoolSize int `mapstructure:"pool_size"` // 通知协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

type CORSConfig struct {
	AllowOrigin string `mapstructure:"allow_origin"`
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/taskhub")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "taskhub")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("jwt.access_ttl_min", 30)
	viper.SetDefault("jwt.refresh_ttl_hours", 168)
	viper.SetDefault("jwt.cache_ttl_min", 5)
	viper.SetDefault("jwt.cache_capacity", 100)
	viper.SetDefault("smtp.enabled", false)
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("storage.max_size_mb", 50)
	viper.SetDefault("frontend.base_url", "http://localhost:3000")
	viper.SetDefault("scheduler.scan_interval_sec", 3600)
	viper.SetDefault("scheduler.digest_hour", 8)
	viper.SetDefault("lockout.threshold", 5)
	viper.SetDefault("lockout.duration_min", 15)
	viper.SetDefault("notify.pool_size", 16)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")
	viper.SetDefault("cors.allow_origin", "*")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
