package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type config struct {
	Production  bool          `env:"PRODUCTION" envDefault:"false"`
	Port        string        `env:"PORT" envDefault:"80"`
	PostgresUrl string        `env:"POSTGRES_URL,required"`
	RedisUrl    string        `env:"REDIS_URL" envDefault:"redis:6379"`
	JwtTTL      time.Duration `env:"TOKEN_TTL" envDefault:"20m"`
	Secret      string        `env:"SECRET,required"`
	Timezone    string        `env:"TIMEZONE" envDefault:""`
}

var conf config

func init() {
	if err := env.Parse(&conf); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
}

func Production() bool {
	return conf.Production
}

func Port() string {
	return conf.Port
}

func PostgresURL() string {
	return conf.PostgresUrl
}

func RedisURL() string {
	return conf.RedisUrl
}

func JwtTTL() time.Duration {
	return conf.JwtTTL
}

func Secret() string {
	return conf.Secret
}

// Location is the zone naive and date-only times are read in.
// An empty TIMEZONE means the system local zone.
func Location() (*time.Location, error) {
	if conf.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", conf.Timezone, err)
	}

	return loc, nil
}
