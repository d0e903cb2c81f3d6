package config

import "time"

// Chat definition chat_service YAML structure
type Chat struct {
	Port       string        `mapstructure:"port"`
	AuthMode   string        `mapstructure:"auth_mode"` // "open" or "strict"
	UploadDir  string        `mapstructure:"upload_dir"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	MinIO      MinIOConfig    `mapstructure:"minio"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Enable  bool `mapstructure:"enable"`
	RedisDB int  `mapstructure:"redis_db"`
}

// KafkaConfig definition kafka archive setting, disabled when Brokers is empty
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// MinIOConfig definition minio upload-store setting
type MinIOConfig struct {
	Enable        bool   `mapstructure:"enable"`
	Endpoint      string `mapstructure:"endpoint"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
