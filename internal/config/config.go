package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Env       string `mapstructure:"env"`
	Port      int    `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers               []string `mapstructure:"brokers"`
	TopicMessageSent      string   `mapstructure:"topic_message_sent"`
	TopicGroupMessageSent string   `mapstructure:"topic_group_message_sent"`
}

type S3Config struct {
	Region     string `mapstructure:"region"`
	Bucket     string `mapstructure:"bucket"`
	Endpoint   string `mapstructure:"endpoint"`
	PublicRead bool   `mapstructure:"public_read"`
}

type RateLimitConfig struct {
	MessagesPerWindow int `mapstructure:"messages_per_window"`
	WindowSeconds     int `mapstructure:"window_seconds"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Mongo     MongoConfig     `mapstructure:"mongodb"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	S3        S3Config        `mapstructure:"s3"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// Load reads config.yaml from the working directory with environment
// variable overrides (APP_PORT, MONGODB_URI, ...). A local .env file is
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only surfaces keys viper already knows during Unmarshal,
	// so every key is bound explicitly; without this, env-only settings with
	// no default (jwt secret, s3, kafka brokers) would be dropped.
	for _, key := range []string{
		"app.env", "app.port", "app.jwt_secret",
		"mongodb.uri", "mongodb.database",
		"redis.addr", "redis.password", "redis.db",
		"kafka.brokers", "kafka.topic_message_sent", "kafka.topic_group_message_sent",
		"s3.region", "s3.bucket", "s3.endpoint", "s3.public_read",
		"rate_limit.messages_per_window", "rate_limit.window_seconds",
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8084)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "swiftsend")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.topic_message_sent", "message.sent")
	v.SetDefault("kafka.topic_group_message_sent", "group_message.sent")
	v.SetDefault("rate_limit.messages_per_window", 30)
	v.SetDefault("rate_limit.window_seconds", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.App.JWTSecret == "" {
		return nil, errors.New("app.jwt_secret must be set")
	}
	return &cfg, nil
}
