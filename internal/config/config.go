package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PETWORLD"

type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Media  MediaConfig  `mapstructure:"media"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Sweep  SweepConfig  `mapstructure:"sweep"`
	Log    LogConfig    `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	JobWaitTimeout time.Duration `mapstructure:"job_wait_timeout"`
}

type LedgerConfig struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	NetworkPassphrase   string        `mapstructure:"network_passphrase"`
	PetContract         string        `mapstructure:"pet_contract"`
	AchievementContract string        `mapstructure:"achievement_contract"`
	SignerURL           string        `mapstructure:"signer_url"`
	Source              string        `mapstructure:"source"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConfirmAttempts     int           `mapstructure:"confirm_attempts"`
	ConfirmInterval     time.Duration `mapstructure:"confirm_interval"`
	SettleDelay         time.Duration `mapstructure:"settle_delay"`
}

type MediaConfig struct {
	ClipgenURL   string        `mapstructure:"clipgen_url"`
	ImagegenURL  string        `mapstructure:"imagegen_url"`
	S3URL        string        `mapstructure:"s3_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollAttempts int           `mapstructure:"poll_attempts"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	URL    string        `mapstructure:"url"`
	JobTTL time.Duration `mapstructure:"job_ttl"`
}

type SweepConfig struct {
	MaxConsecutiveMisses int           `mapstructure:"max_consecutive_misses"`
	MaxScan              int           `mapstructure:"max_scan"`
	ScanDelay            time.Duration `mapstructure:"scan_delay"`
	UpdateDelay          time.Duration `mapstructure:"update_delay"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

var defaults = map[string]any{
	"http.addr":             ":8080",
	"http.job_wait_timeout": 6 * time.Minute,

	"ledger.rpc_url":              "https://soroban-testnet.stellar.org",
	"ledger.network_passphrase":   "Test SDF Network ; September 2015",
	"ledger.pet_contract":         "CBDGYGMN4MJOTMGBGPY6VF2JCIDBYUFKPWB4ZDP2AGRV7BFOFWYPATKT",
	"ledger.achievement_contract": "",
	"ledger.signer_url":           "",
	"ledger.source":               "",
	"ledger.timeout":              30 * time.Second,
	"ledger.confirm_attempts":     10,
	"ledger.confirm_interval":     time.Second,
	"ledger.settle_delay":         2 * time.Second,

	"media.clipgen_url":   "https://clipgen-739298578243.us-central1.run.app",
	"media.imagegen_url":  "https://imagegen-739298578243.us-central1.run.app",
	"media.s3_url":        "https://real-estate-brochures-tenori.s3.ap-south-1.amazonaws.com",
	"media.timeout":       60 * time.Second,
	"media.poll_interval": 3 * time.Second,
	"media.poll_attempts": 120,

	"db.driver": "postgres",
	"db.dsn":    "",

	"redis.url":     "",
	"redis.job_ttl": time.Hour,

	"sweep.max_consecutive_misses": 10,
	"sweep.max_scan":               10000,
	"sweep.scan_delay":             100 * time.Millisecond,
	"sweep.update_delay":           500 * time.Millisecond,

	"log.level":        "info",
	"log.format":       "console",
	"log.file":         "",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 30,
	"log.compress":     false,
}

// New returns a viper instance with every default registered and
// PETWORLD_* environment overrides enabled (ledger.rpc_url -> PETWORLD_LEDGER_RPC_URL).
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and returns the resolved settings.
func Load(path string) (Config, error) {
	v := New()
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "postgres", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("db.driver must be postgres, sqlite or memory, got %q", c.DB.Driver))
	}
	if c.Media.PollAttempts <= 0 {
		errs = append(errs, errors.New("media.poll_attempts must be positive"))
	}
	if c.Media.PollInterval <= 0 {
		errs = append(errs, errors.New("media.poll_interval must be positive"))
	}
	if c.Ledger.ConfirmAttempts <= 0 {
		errs = append(errs, errors.New("ledger.confirm_attempts must be positive"))
	}
	if c.Sweep.MaxConsecutiveMisses <= 0 {
		errs = append(errs, errors.New("sweep.max_consecutive_misses must be positive"))
	}
	return errors.Join(errs...)
}
