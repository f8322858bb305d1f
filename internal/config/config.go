package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	MySQL struct {
		DSN string
	} `mapstructure:"mysql"`

	Redis struct {
		Enabled bool
		Addr    string
	} `mapstructure:"redis"`

	Catalog struct {
		MaxAgeDays int `mapstructure:"max_age_days"`
	} `mapstructure:"catalog"`

	Store struct {
		Timeout time.Duration
		Retries int
	} `mapstructure:"store"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ROASTERY")
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("mysql.dsn", "root:root@tcp(localhost:3306)/roastery?parseTime=true")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("catalog.max_age_days", 5)
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("store.retries", 3)
	v.SetDefault("metrics.enabled", true)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
