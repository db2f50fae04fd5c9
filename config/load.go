package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfigs mirrors Configs with toml-friendly field types. Durations are
// written as strings ("50m", "5s") in the config file.
type fileConfigs struct {
	Env string `toml:"env"`

	ApiServer struct {
		Host         string `toml:"host"`
		Port         string `toml:"port"`
		MaxLimit     int    `toml:"max_limit"`
		DefaultLimit int    `toml:"default_limit"`
	} `toml:"api_server"`

	Database struct {
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		Database string `toml:"database"`
		User     string `toml:"user"`
		Password string `toml:"password"`
	} `toml:"database"`

	Redis struct {
		Addr string `toml:"addr"`
	} `toml:"redis"`

	Auth struct {
		TokenSecret           string `toml:"token_secret"`
		AccessTokenName       string `toml:"access_token_name"`
		AccessTokenExpiration string `toml:"access_token_expiration"`
	} `toml:"auth"`

	Lottery struct {
		CycleDuration    string `toml:"cycle_duration"`
		EntryDuration    string `toml:"entry_duration"`
		AnnounceDuration string `toml:"announce_duration"`
		WinnerCount      int    `toml:"winner_count"`
		TotalPrizePoints uint64 `toml:"total_prize_points"`
		TickInterval     string `toml:"tick_interval"`
	} `toml:"lottery"`
}

// Load reads the toml file at path (if path is not empty), applies
// environment overrides for credentials, and fills in defaults.
func Load(path string) (Configs, error) {
	var f fileConfigs
	if path != "" {
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	cfg := Configs{
		Env: defaultString(f.Env, os.Getenv("ENV"), "local"),
		ApiServer: APIServerConfigs{
			Host:         defaultString(f.ApiServer.Host, os.Getenv("HOST"), "0.0.0.0"),
			Port:         defaultString(f.ApiServer.Port, os.Getenv("PORT"), "8080"),
			MaxLimit:     defaultInt(f.ApiServer.MaxLimit, 50),
			DefaultLimit: defaultInt(f.ApiServer.DefaultLimit, 10),
		},
		Database: DatabaseConfigs{
			Host:     defaultString(f.Database.Host, os.Getenv("MYSQL_HOST"), "localhost"),
			Port:     defaultString(f.Database.Port, os.Getenv("MYSQL_PORT"), "3306"),
			Database: defaultString(f.Database.Database, os.Getenv("MYSQL_DATABASE"), "lottery"),
			User:     defaultString(f.Database.User, os.Getenv("MYSQL_USER"), "root"),
			Password: defaultString(f.Database.Password, os.Getenv("MYSQL_PASSWORD"), ""),
		},
		Redis: RedisConfigs{
			Addr: defaultString(f.Redis.Addr, os.Getenv("REDIS_ADDR"), "localhost:6379"),
		},
	}

	cfg.Auth = AuthConfigs{
		TokenSecret: defaultString(f.Auth.TokenSecret, os.Getenv("TOKEN_SECRET"), "token-secret"),
		AccessToken: TokenConfigs{
			Name: defaultString(f.Auth.AccessTokenName, "", "access_token"),
		},
	}

	var err error
	if cfg.Auth.AccessToken.Expiration, err = parseDuration(f.Auth.AccessTokenExpiration, 24*time.Hour); err != nil {
		return Configs{}, err
	}

	if cfg.Lottery.CycleDuration, err = parseDuration(f.Lottery.CycleDuration, time.Hour); err != nil {
		return Configs{}, err
	}

	if cfg.Lottery.EntryDuration, err = parseDuration(f.Lottery.EntryDuration, 50*time.Minute); err != nil {
		return Configs{}, err
	}

	if cfg.Lottery.AnnounceDuration, err = parseDuration(f.Lottery.AnnounceDuration, 10*time.Minute); err != nil {
		return Configs{}, err
	}

	if cfg.Lottery.TickInterval, err = parseDuration(f.Lottery.TickInterval, 5*time.Second); err != nil {
		return Configs{}, err
	}

	cfg.Lottery.WinnerCount = defaultInt(f.Lottery.WinnerCount, 10)
	cfg.Lottery.TotalPrizePoints = f.Lottery.TotalPrizePoints
	if cfg.Lottery.TotalPrizePoints == 0 {
		cfg.Lottery.TotalPrizePoints = 1000
	}

	if err := cfg.Lottery.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	return d, nil
}

func defaultString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}

	return v
}
