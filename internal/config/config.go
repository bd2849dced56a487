// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"BOZO_ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	OracleAPI       `yaml:"oracle_api"`
	Session         `yaml:"session"`
	CSRF            `yaml:"csrf"`
	RedisConnection `yaml:"redis_connection"`
	RateLimit       `yaml:"rate_limit"`
	RabbitMQ        `yaml:"rabbitmq"`
	Profile         `yaml:"profile"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"BOZO_HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// OracleAPI настройки удалённого API чтений, подписок и портала оплаты
type OracleAPI struct {
	OracleBaseURL string        `yaml:"base_url" env:"BOZO_ORACLE_API_BASE" env-default:"http://localhost:8000"`
	OracleTimeout time.Duration `yaml:"timeout" env:"BOZO_ORACLE_API_TIMEOUT" env-default:"20s"`
}

// Session настройки cookie с идентичностью посетителя
type Session struct {
	SessionSecret string        `yaml:"secret" env:"BOZO_SESSION_SECRET" env-required:"true"`
	SessionTTL    time.Duration `yaml:"ttl" env-default:"8760h"`
	SessionCookie string        `yaml:"cookie_name" env-default:"bozo_email"`
	SessionSecure bool          `yaml:"secure" env:"BOZO_SESSION_SECURE"`
}

// CSRF настройки защиты форм
type CSRF struct {
	CSRFKey            string   `yaml:"key" env:"BOZO_CSRF_KEY" env-required:"true"`
	CSRFTrustedOrigins []string `yaml:"trusted_origins" env:"BOZO_CSRF_TRUSTED_ORIGINS" env-separator:","`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш условий.
type RedisConnection struct {
	AddressRedis      string        `yaml:"addressredis" env:"BOZO_REDIS_ADDRESS"`
	RedisPassword     string        `yaml:"password" env:"BOZO_REDIS_PASSWORD"`
	RedisUser         string        `yaml:"user"`
	RedisDB           int           `yaml:"db"`
	RedisMaxRetries   int           `yaml:"max_retries"`
	RedisDialTimeout  time.Duration `yaml:"dial_timeout"`
	RedisTimeout      time.Duration `yaml:"timeoutredis"`
	ConditionsTTL     time.Duration `yaml:"conditions_ttl" env-default:"1h"`
	ConditionsRefresh time.Duration `yaml:"conditions_refresh" env-default:"30m"`
}

// RateLimit ограничение частоты отправки форм
type RateLimit struct {
	RateLimitRPS   float64 `yaml:"rps" env-default:"5"`
	RateLimitBurst int     `yaml:"burst" env-default:"10"`
}

// RabbitMQ настройки публикации событий воронки. Пустой URL отключает публикацию.
type RabbitMQ struct {
	AMQPURL      string `yaml:"url" env:"BOZO_AMQP_URL"`
	AMQPExchange string `yaml:"exchange" env-default:"bozo.events"`
}

// Profile координаты, подставляемые в анкету рождения
type Profile struct {
	DefaultLatitude  float64 `yaml:"default_latitude" env-default:"40.7128"`
	DefaultLongitude float64 `yaml:"default_longitude" env-default:"-74.0060"`
}

// Load читает конфиг из файла по пути path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"OracleAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Session:\n"+
			"  Cookie: %s\n"+
			"  TTL: %s\n"+
			"  Secure: %t\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  ConditionsTTL: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.OracleBaseURL,
		c.OracleTimeout,
		c.SessionCookie,
		c.SessionTTL,
		c.SessionSecure,
		c.AddressRedis,
		c.RedisDB,
		c.ConditionsTTL,
		c.RateLimitRPS,
		c.RateLimitBurst,
		c.AMQPExchange,
	)
}
