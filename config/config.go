package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "PAYSDK"

type Config struct {
	ShopId              string        `mapstructure:"shop_id"`
	TestEnvironment     bool          `mapstructure:"test_environment"`
	Gateway             string        `mapstructure:"gateway"`
	AvailabilityTimeout time.Duration `mapstructure:"availability_timeout"`
	Redis               Redis         `mapstructure:"redis"`
	Sandbox             Sandbox       `mapstructure:"sandbox"`
	Log                 Log           `mapstructure:"log"`
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Sandbox holds pem locations of keys used by the sandbox wallet
type Sandbox struct {
	RootKey    string `mapstructure:"root_key"`
	GatewayKey string `mapstructure:"gateway_key"`
	Available  bool   `mapstructure:"available"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("shop_id", "")
	v.SetDefault("test_environment", false)
	v.SetDefault("gateway", "yandexcheckout")
	v.SetDefault("availability_timeout", 10*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "paysdk:prefs:")
	v.SetDefault("sandbox.root_key", "")
	v.SetDefault("sandbox.gateway_key", "")
	v.SetDefault("sandbox.available", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads optional config file and PAYSDK_* environment, e.g. PAYSDK_SHOP_ID or PAYSDK_REDIS_ADDR
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(path) > 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.ShopId = strings.TrimSpace(cfg.ShopId)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.AvailabilityTimeout <= 0:
		return errors.New("availability timeout should be positive")
	case len(strings.TrimSpace(c.Gateway)) == 0:
		return errors.New("gateway not defined")
	case c.Redis.DB < 0:
		return errors.New("redis db should not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

func (r Redis) Options() *redis.Options {
	return &redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	}
}

// Logger builds zap logger for the log section
func (l Log) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
