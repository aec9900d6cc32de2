package service

import (
	"strings"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// ModeProvider supplies the current platform operating mode. Injected so
// tests can pin a mode instead of mutating global state.
type ModeProvider interface {
	CurrentMode() model.Mode
}

// StaticMode is a ModeProvider that always returns the same mode.
type StaticMode model.Mode

func (m StaticMode) CurrentMode() model.Mode {
	return model.Mode(m)
}

// ParseMode maps a config string to a Mode, defaulting to BETA.
func ParseMode(s string) model.Mode {
	if strings.EqualFold(s, string(model.ModeNatural)) {
		return model.ModeNatural
	}
	return model.ModeBeta
}

// Thresholds are the detector trigger points for one mode. Zero-valued
// extreme thresholds mean "no extreme tier in this mode".
type Thresholds struct {
	Velocity         int     // engagements per post per window before action
	ExtremeVelocity  int     // NATURAL only: hold tier
	CreatorVelocity  int     // engagements given per creator per window
	Diversity        float64 // top-10 percentage before action
	ExtremeDiversity float64 // NATURAL only: warn tier
	MinSharedPosts   int     // pod detection co-occurrence floor
	MinCommentLen    int     // comments shorter than this don't count
}

// Caps are the monetary limits for one mode. Zero means uncapped.
type Caps struct {
	PerPost         float64
	Daily           float64
	GracePeriodDays int
}

var betaThresholds = Thresholds{
	Velocity:        50,
	CreatorVelocity: 50,
	Diversity:       50,
	MinSharedPosts:  5,
	MinCommentLen:   10,
}

var naturalThresholds = Thresholds{
	Velocity:         200,
	ExtremeVelocity:  500,
	CreatorVelocity:  200,
	Diversity:        90,
	ExtremeDiversity: 95,
	MinSharedPosts:   5,
	MinCommentLen:    3,
}

var betaCaps = Caps{
	PerPost:         100,
	Daily:           500,
	GracePeriodDays: 3,
}

var naturalCaps = Caps{}

// Overrides are operational tuning knobs from config. Zero values fall
// back to the compiled-in defaults for the active mode.
type Overrides struct {
	Velocity  int
	Diversity int
	PerPost   float64
	Daily     float64
}

// ModeConfig resolves mode-specific thresholds and caps. The mode is read
// from the provider at call time, never cached across requests.
type ModeConfig struct {
	provider  ModeProvider
	overrides Overrides
}

func NewModeConfig(provider ModeProvider, overrides Overrides) *ModeConfig {
	return &ModeConfig{provider: provider, overrides: overrides}
}

// CurrentMode returns the active operating mode, defaulting to BETA when
// no provider is configured.
func (m *ModeConfig) CurrentMode() model.Mode {
	if m.provider == nil {
		return model.ModeBeta
	}
	if mode := m.provider.CurrentMode(); mode == model.ModeNatural {
		return model.ModeNatural
	}
	return model.ModeBeta
}

// ThresholdsFor returns the detector thresholds for the given mode with
// operational overrides applied.
func (m *ModeConfig) ThresholdsFor(mode model.Mode) Thresholds {
	t := betaThresholds
	if mode == model.ModeNatural {
		t = naturalThresholds
	}
	if m.overrides.Velocity > 0 {
		t.Velocity = m.overrides.Velocity
	}
	if m.overrides.Diversity > 0 {
		t.Diversity = float64(m.overrides.Diversity)
	}
	return t
}

// CapsFor returns the monetary caps for the given mode with operational
// overrides applied.
func (m *ModeConfig) CapsFor(mode model.Mode) Caps {
	c := betaCaps
	if mode == model.ModeNatural {
		c = naturalCaps
	}
	if m.overrides.PerPost > 0 {
		c.PerPost = m.overrides.PerPost
	}
	if m.overrides.Daily > 0 {
		c.Daily = m.overrides.Daily
	}
	return c
}

// Thresholds returns the thresholds for the current mode.
func (m *ModeConfig) Thresholds() Thresholds {
	return m.ThresholdsFor(m.CurrentMode())
}

// Caps returns the caps for the current mode.
func (m *ModeConfig) Caps() Caps {
	return m.CapsFor(m.CurrentMode())
}
