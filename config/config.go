package config

import (
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/spf13/viper"
)

// Config 服务配置（config.yaml + 环境变量覆盖）
type Config struct {
    Server    ServerConfig    `mapstructure:"server"`
    Database  DatabaseConfig  `mapstructure:"database"`
    Redis     RedisConfig     `mapstructure:"redis"`
    APNS      APNSConfig      `mapstructure:"apns"`
    Fanout    FanoutConfig    `mapstructure:"fanout"`
    Sentry    SentryConfig    `mapstructure:"sentry"`
    Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
    Addr string `mapstructure:"addr"`
    Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
    Driver string `mapstructure:"driver"` // postgres / sqlite
    DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
    Addr     string        `mapstructure:"addr"`
    Password string        `mapstructure:"password"`
    DB       int           `mapstructure:"db"`
    TTL      time.Duration `mapstructure:"ttl"`
}

// APNSConfig APNs 推送凭证配置
type APNSConfig struct {
    KeyID      string `mapstructure:"key_id"`
    TeamID     string `mapstructure:"team_id"`
    BundleID   string `mapstructure:"bundle_id"`
    PrivateKey string `mapstructure:"private_key"`
    Production bool   `mapstructure:"production"`
}

// Configured 四项凭证均非空才算配置完整
func (c APNSConfig) Configured() bool {
    return strings.TrimSpace(c.KeyID) != "" &&
        strings.TrimSpace(c.TeamID) != "" &&
        strings.TrimSpace(c.BundleID) != "" &&
        strings.TrimSpace(c.PrivateKey) != ""
}

// FanoutConfig 扇出调度配置
type FanoutConfig struct {
    Platform      string        `mapstructure:"platform" validate:"omitempty,oneof=ios android"`
    Workers       int           `mapstructure:"workers" validate:"min=0"`
    RatePerSecond int           `mapstructure:"rate_per_second" validate:"min=0"`
    PollInterval  time.Duration `mapstructure:"poll_interval"`
    ClaimLimit    int           `mapstructure:"claim_limit" validate:"min=0"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

type TelemetryConfig struct {
    Endpoint string `mapstructure:"endpoint"`
}

// Load 读取配置；config.yaml 可缺省，环境变量形如 APNS_KEY_ID
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")

    v.SetDefault("server.addr", ":8080")
    v.SetDefault("server.mode", "debug")
    v.SetDefault("database.driver", "postgres")
    v.SetDefault("database.dsn", "")
    v.SetDefault("redis.addr", "")
    v.SetDefault("redis.password", "")
    v.SetDefault("redis.db", 0)
    v.SetDefault("redis.ttl", time.Minute)
    // AutomaticEnv 只覆盖已知 key，这里必须逐项给默认值
    v.SetDefault("apns.key_id", "")
    v.SetDefault("apns.team_id", "")
    v.SetDefault("apns.bundle_id", "")
    v.SetDefault("apns.private_key", "")
    v.SetDefault("apns.production", false)
    v.SetDefault("sentry.dsn", "")
    v.SetDefault("telemetry.endpoint", "")
    v.SetDefault("fanout.platform", "ios")
    v.SetDefault("fanout.workers", 8)
    v.SetDefault("fanout.rate_per_second", 100)
    v.SetDefault("fanout.poll_interval", 50*time.Millisecond)
    v.SetDefault("fanout.claim_limit", 128)

    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    if err := v.ReadInConfig(); err != nil {
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, err
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, err
    }
    if err := validator.New().Struct(&cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}
