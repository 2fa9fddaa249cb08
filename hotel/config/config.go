package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/Astemirdum/hotel-service/pkg/kafka"
	"github.com/Astemirdum/hotel-service/pkg/logger"
	"github.com/Astemirdum/hotel-service/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HOTEL_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HOTEL_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
	CORSOrigins  []string      `yaml:"corsOrigins" envconfig:"CORS_ORIGINS"`
}

type Admin struct {
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}

type Reservation struct {
	LeadTimeDays int `envconfig:"RESERVATION_LEAD_TIME_DAYS" default:"7"`
}

type Config struct {
	Server      HTTPServer `yaml:"server"`
	Database    postgres.DB
	Kafka       kafka.Config
	Redis       auth.RedisConfig
	Auth        auth.Config
	Admin       Admin
	Reservation Reservation
	Log         logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options apply first, so a set variable overrides them;
// fields carrying a default tag ignore options.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(config)
	})

	return cfg
}

func printConfig(cfg Config) {
	cfg.Database.Password = mask(cfg.Database.Password)
	cfg.Redis.Password = mask(cfg.Redis.Password)
	cfg.Auth.Secret = mask(cfg.Auth.Secret)
	cfg.Admin.Password = mask(cfg.Admin.Password)
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}

func mask(s string) string {
	if s == "" {
		return s
	}
	return "***"
}
