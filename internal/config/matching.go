package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// MatchingConfig carries the tunable knobs of the identity resolver, the cost
// rollup and the sync engine. It lives in a separate hot-reloadable file so
// operators can adjust matching behaviour without a restart.
type MatchingConfig struct {
	// Series prefix length bounds used when splitting a bare token such as
	// "CJCJ16942" into series and registration number.
	SeriesMinLen int `mapstructure:"seriesMinLen"`
	SeriesMaxLen int `mapstructure:"seriesMaxLen"`

	// Smallest difference that justifies rewriting an animal's cached total
	// cost, expressed as a decimal string (e.g. "0.005").
	RollupEpsilon string `mapstructure:"rollupEpsilon"`

	// Upper bound on documents walked per sync run. Zero means unbounded.
	SyncBatchSize int `mapstructure:"syncBatchSize"`
}

func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		SeriesMinLen:  2,
		SeriesMaxLen:  5,
		RollupEpsilon: "0.005",
		SyncBatchSize: 0,
	}
}

type MatchingConfigHolder struct {
	current atomic.Value // holds MatchingConfig
}

func NewMatchingConfigHolder() (*MatchingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("matching")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/boletim")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOLETIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultMatchingConfig()
	v.SetDefault("matching.seriesMinLen", defaults.SeriesMinLen)
	v.SetDefault("matching.seriesMaxLen", defaults.SeriesMaxLen)
	v.SetDefault("matching.rollupEpsilon", defaults.RollupEpsilon)
	v.SetDefault("matching.syncBatchSize", defaults.SyncBatchSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg MatchingConfig
	if err := v.UnmarshalKey("matching", &cfg); err != nil {
		return nil, err
	}
	if err := validateMatchingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &MatchingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated MatchingConfig
		if err := v.UnmarshalKey("matching", &updated); err != nil {
			log.Printf("[matching-config] reload failed: %v", err)
			return
		}
		if err := validateMatchingConfig(updated); err != nil {
			log.Printf("[matching-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[matching-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticMatchingConfigHolder wraps a fixed config, used by tests.
func NewStaticMatchingConfigHolder(cfg MatchingConfig) *MatchingConfigHolder {
	holder := &MatchingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *MatchingConfigHolder) Get() MatchingConfig {
	return h.current.Load().(MatchingConfig)
}

func validateMatchingConfig(cfg MatchingConfig) error {
	if cfg.SeriesMinLen < 1 || cfg.SeriesMaxLen < cfg.SeriesMinLen {
		return errors.New("matching.seriesMinLen/seriesMaxLen out of order")
	}
	if cfg.RollupEpsilon == "" {
		return errors.New("matching.rollupEpsilon cannot be empty")
	}
	return nil
}
