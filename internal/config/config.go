package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	MySQL    *MySQLConfig    `mapstructure:"mysql"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Queue    *QueueConfig    `mapstructure:"queue"`
	RabbitMQ *RabbitMQConfig `mapstructure:"rabbitmq"`
	Kafka    *KafkaConfig    `mapstructure:"kafka"`
	Raffle   *RaffleConfig   `mapstructure:"raffle"`
	Storage  *StorageConfig  `mapstructure:"storage"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	LogLevel           string        `mapstructure:"log_level"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type QueueConfig struct {
	Prefix       string          `mapstructure:"prefix"`
	MaxAttempts  int             `mapstructure:"max_attempts"`
	Backoff      []time.Duration `mapstructure:"backoff"`
	PollInterval time.Duration   `mapstructure:"poll_interval"`
	DLQKey       string          `mapstructure:"dlq_key"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type KafkaConfig struct {
	Brokers    string `mapstructure:"brokers"`
	AuditTopic string `mapstructure:"audit_topic"`
}

type RaffleConfig struct {
	GeneralPoolSize int    `mapstructure:"general_pool_size"`
	Timezone        string `mapstructure:"timezone"`
	MaxScanCount    int    `mapstructure:"max_scan_count"`
}

type StorageConfig struct {
	ImageDir      string `mapstructure:"image_dir"`
	MaxImageWidth int    `mapstructure:"max_image_width"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.request_timeout", "15s")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("queue.prefix", "eventos")
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.backoff", []string{"30s", "60s", "120s"})
	v.SetDefault("queue.poll_interval", "1s")
	v.SetDefault("queue.dlq_key", "eventos:tasks:dlq")
	v.SetDefault("rabbitmq.exchange", "eventos")
	v.SetDefault("kafka.audit_topic", "audit-log")
	v.SetDefault("raffle.general_pool_size", 15)
	v.SetDefault("raffle.timezone", "America/Mexico_City")
	v.SetDefault("raffle.max_scan_count", 2)
	v.SetDefault("storage.image_dir", "./storage")
	v.SetDefault("storage.max_image_width", 800)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

// Load reads the yaml file at path. Environment variables such as API_PORT override file values.
func Load(path string) (*AppConfig, error) {
	conf, _, err := load(path)
	return conf, err
}

func load(path string) (*AppConfig, *viper.Viper, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := unmarshal(v)
	if err != nil {
		return nil, nil, err
	}

	return conf, v, nil
}

// Watch reloads the file on every write and hands the new config to onChange.
func Watch(path string, onChange func(*AppConfig)) error {
	_, v, err := load(path)
	if err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		conf, err := unmarshal(v)
		if err != nil {
			return
		}
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}

func unmarshal(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	// Sections absent from the file still resolve to non-nil structs.
	if conf.MySQL == nil {
		conf.MySQL = &MySQLConfig{}
	}
	if conf.Postgres == nil {
		conf.Postgres = &PostgresConfig{}
	}
	if conf.RabbitMQ == nil {
		conf.RabbitMQ = &RabbitMQConfig{}
	}
	if conf.Kafka == nil {
		conf.Kafka = &KafkaConfig{}
	}

	return conf, nil
}
