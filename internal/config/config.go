package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"` // 开启后错误响应携带堆栈信息
}

// StorageConfig 存储后端选择
// driver=memory 时基金目录和交易流水都在内存中；driver=mysql 时走数据库
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory | mysql
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"` // 开启后基金目录查询走 Redis 缓存
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttl_sec"` // 缓存过期时间（秒）
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	Notification string `mapstructure:"notification"`
}

// NotifierConfig 通知方式选择
// mode=none 不发通知；mode=kafka 同步发到 Kafka；mode=outbox 先落库再异步投递
type NotifierConfig struct {
	Mode string `mapstructure:"mode"` // none | kafka | outbox
}

type BusinessConfig struct {
	InitialBalance           int64 `mapstructure:"initial_balance"`            // 账户初始余额
	ActiveSubscriptionWindow int   `mapstructure:"active_subscription_window"` // 判断有效认购时回看的流水条数
	DefaultTransactionCount  int   `mapstructure:"default_transaction_count"`  // 查询流水的默认条数
	MaxRetryCount            int   `mapstructure:"max_retry_count"`            // 发件箱消息最大重试次数
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	return config
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.debug", false)
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.ttl_sec", 300)
	viper.SetDefault("notifier.mode", "none")
	viper.SetDefault("business.initial_balance", 500000)
	viper.SetDefault("business.active_subscription_window", 1000)
	viper.SetDefault("business.default_transaction_count", 10)
	viper.SetDefault("business.max_retry_count", 3)
}
