package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

// EnvPrefix prefixes every environment override, e.g. WINSWEEP_CONFIRM.
const EnvPrefix = "WINSWEEP"

// DefaultDays is the retention for drive temp folders, recycle bins and
// Downloads.
const DefaultDays = 30

// ErrConflictingModes is reported when both --confirm and --dryrun are set.
var ErrConflictingModes = errors.New("--confirm can not be combined with --dryrun")

// Settings is the resolved run configuration: flags, overridden by
// environment variables where a flag was not given explicitly.
type Settings struct {
	Confirm     bool   `mapstructure:"confirm"`
	DryRun      bool   `mapstructure:"dryrun"`
	Debug       bool   `mapstructure:"debug"`
	Days        int    `mapstructure:"days"`
	NoDocker    bool   `mapstructure:"no-docker"`
	NoColor     bool   `mapstructure:"no-color"`
	Progress    bool   `mapstructure:"progress"`
	MetricsFile string `mapstructure:"metrics-file"`
}

// Load binds flags to viper and resolves the settings.
func Load(flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("days", DefaultDays)

	if err := v.BindPFlags(flags); err != nil {
		return Settings{}, fmt.Errorf("bind flags: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if s.Days < 0 {
		return Settings{}, fmt.Errorf("%w: --days must not be negative, got %d", sweep.ErrInvalidArgument, s.Days)
	}
	return s, nil
}

// Mode resolves the dry-run switch. When both switches are given the safe
// choice wins and ErrConflictingModes is returned for the caller to warn
// about.
func (s Settings) Mode() (sweep.Mode, error) {
	switch {
	case s.Confirm && s.DryRun:
		return sweep.ModeDryRun, ErrConflictingModes
	case s.Confirm:
		return sweep.ModeConfirm, nil
	case s.DryRun:
		return sweep.ModeDryRun, nil
	default:
		return sweep.ModeUnset, nil
	}
}

// Retention is Days as a duration.
func (s Settings) Retention() time.Duration {
	return time.Duration(s.Days) * Day
}
