package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name       string
	Env        string
	CORSOrigin string
	HTTP       HTTP
	Admin      AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	// File enables rotated file output alongside stdout when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Schedule holds the single source of truth for business hours. The booking
// path and the reschedule path must validate against the same bounds; the
// display range is wider so the calendar can render early/late context slots.
type Schedule struct {
	OpenHour         int // first bookable hour, inclusive
	CloseHour        int // first non-bookable hour
	DisplayOpenHour  int
	DisplayCloseHour int
	SlotMinutes      int
	JoinWindowMin    int
	LinkBaseURL      string
}

type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type Stats struct {
	CacheTTLSec int
	TopLimit    int
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Schedule Schedule
	SMTP     SMTP
	Stats    Stats
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setScheduleDefaults(v)
	v.SetDefault("stats.cachettlsec", 30)
	v.SetDefault("stats.toplimit", 10)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func setScheduleDefaults(v *viper.Viper) {
	v.SetDefault("schedule.openhour", 9)
	v.SetDefault("schedule.closehour", 17)
	v.SetDefault("schedule.displayopenhour", 8)
	v.SetDefault("schedule.displayclosehour", 19)
	v.SetDefault("schedule.slotminutes", 30)
	v.SetDefault("schedule.joinwindowmin", 15)
	v.SetDefault("schedule.linkbaseurl", "https://meet.reclamation.gov.tn")
}
