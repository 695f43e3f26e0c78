package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config 服務啟動所需的全部環境設定
type Config struct {
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	RedisAddr     string `envconfig:"REDIS_ADDR" required:"true"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`

	WorkerCount     int           `envconfig:"WORKER_COUNT" default:"1"`
	ProductCacheTTL time.Duration `envconfig:"PRODUCT_CACHE_TTL" default:"30s"`
}

// Load 從環境變數讀取設定
func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
