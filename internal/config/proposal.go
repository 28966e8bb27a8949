package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ProposalConfig holds tenant-independent proposal defaults loaded from
// proposal.yml. Per-tenant numbering lives in the database; these knobs
// apply to every organization.
type ProposalConfig struct {
	// DefaultValidityDays fills a proposal's valid-until date when the
	// request leaves it empty. Zero disables the default.
	DefaultValidityDays int `mapstructure:"defaultValidityDays"`

	// PublicRateLimit throttles the unauthenticated client-facing routes.
	PublicRateLimit PublicRateLimit `mapstructure:"publicRateLimit"`
}

type PublicRateLimit struct {
	PerSecond float64 `mapstructure:"perSecond"`
	Burst     int     `mapstructure:"burst"`
}

func DefaultProposalConfig() ProposalConfig {
	return ProposalConfig{
		DefaultValidityDays: 30,
		PublicRateLimit: PublicRateLimit{
			PerSecond: 2,
			Burst:     10,
		},
	}
}

// ProposalConfigHolder hot-reloads proposal.yml without a restart.
type ProposalConfigHolder struct {
	current atomic.Value // holds ProposalConfig
}

func NewProposalConfigHolder() (*ProposalConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("proposal")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/gestios/config") // Volume-mounted config
	v.AddConfigPath("/etc/gestios")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("GESTIOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultProposalConfig()
		v.SetDefault("proposal.defaultValidityDays", defaults.DefaultValidityDays)
		v.SetDefault("proposal.publicRateLimit", defaults.PublicRateLimit)
	}

	var cfg ProposalConfig
	if err := v.UnmarshalKey("proposal", &cfg); err != nil {
		return nil, err
	}
	if err := validateProposalConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ProposalConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ProposalConfig
		if err := v.UnmarshalKey("proposal", &updated); err != nil {
			log.Printf("[proposal-config] reload failed: %v", err)
			return
		}
		if err := validateProposalConfig(updated); err != nil {
			log.Printf("[proposal-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[proposal-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ProposalConfigHolder) Get() ProposalConfig {
	return h.current.Load().(ProposalConfig)
}

func validateProposalConfig(cfg ProposalConfig) error {
	if cfg.DefaultValidityDays < 0 {
		return errors.New("proposal.defaultValidityDays cannot be negative")
	}
	if cfg.PublicRateLimit.PerSecond < 0 || cfg.PublicRateLimit.Burst < 0 {
		return errors.New("proposal.publicRateLimit values cannot be negative")
	}
	return nil
}
