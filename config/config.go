package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	ApiServer APIServerConfigs
	Database  DatabaseConfigs
	Redis     RedisConfigs
	Auth      AuthConfigs
	Lottery   LotteryConfigs
}

type APIServerConfigs struct {
	Host string
	Port string

	MaxLimit     int
	DefaultLimit int
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

// LotteryConfigs is read once at process start. Every round snapshots these
// values at creation time, so changing them only affects rounds created
// afterwards.
type LotteryConfigs struct {
	CycleDuration    time.Duration
	EntryDuration    time.Duration
	AnnounceDuration time.Duration

	WinnerCount      int
	TotalPrizePoints uint64

	TickInterval time.Duration
}

func (l *LotteryConfigs) Validate() error {
	if l.CycleDuration <= 0 || l.EntryDuration <= 0 || l.AnnounceDuration <= 0 {
		return fmt.Errorf("lottery durations must be positive")
	}

	if l.EntryDuration+l.AnnounceDuration != l.CycleDuration {
		return fmt.Errorf("entry duration plus announce duration must equal cycle duration")
	}

	if l.WinnerCount <= 0 {
		return fmt.Errorf("winner count must be positive")
	}

	if l.TotalPrizePoints == 0 {
		return fmt.Errorf("total prize points must be positive")
	}

	if l.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}

	return nil
}
