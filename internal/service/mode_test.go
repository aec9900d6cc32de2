package service

import (
	"testing"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want model.Mode
	}{
		{"NATURAL", model.ModeNatural},
		{"natural", model.ModeNatural},
		{"BETA", model.ModeBeta},
		{"beta", model.ModeBeta},
		{"", model.ModeBeta},
		{"garbage", model.ModeBeta},
	}

	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestThresholdsPerMode(t *testing.T) {
	cfg := NewModeConfig(StaticMode(model.ModeBeta), Overrides{})

	beta := cfg.ThresholdsFor(model.ModeBeta)
	if beta.Velocity != 50 || beta.CreatorVelocity != 50 {
		t.Errorf("beta velocity thresholds = %d/%d, want 50/50", beta.Velocity, beta.CreatorVelocity)
	}
	if beta.Diversity != 50 {
		t.Errorf("beta diversity threshold = %.0f, want 50", beta.Diversity)
	}
	if beta.ExtremeVelocity != 0 {
		t.Errorf("beta has no extreme velocity tier, got %d", beta.ExtremeVelocity)
	}
	if beta.MinCommentLen != 10 {
		t.Errorf("beta min comment length = %d, want 10", beta.MinCommentLen)
	}

	natural := cfg.ThresholdsFor(model.ModeNatural)
	if natural.Velocity != 200 || natural.ExtremeVelocity != 500 {
		t.Errorf("natural velocity thresholds = %d/%d, want 200/500", natural.Velocity, natural.ExtremeVelocity)
	}
	if natural.CreatorVelocity != 200 {
		t.Errorf("natural creator velocity = %d, want 200", natural.CreatorVelocity)
	}
	if natural.ExtremeDiversity != 95 {
		t.Errorf("natural extreme diversity = %.0f, want 95", natural.ExtremeDiversity)
	}
	if natural.MinCommentLen != 3 {
		t.Errorf("natural min comment length = %d, want 3", natural.MinCommentLen)
	}
}

func TestCapsPerMode(t *testing.T) {
	cfg := NewModeConfig(StaticMode(model.ModeBeta), Overrides{})

	beta := cfg.CapsFor(model.ModeBeta)
	if beta.PerPost != 100 || beta.Daily != 500 || beta.GracePeriodDays != 3 {
		t.Errorf("beta caps = %.0f/%.0f/%d, want 100/500/3", beta.PerPost, beta.Daily, beta.GracePeriodDays)
	}

	natural := cfg.CapsFor(model.ModeNatural)
	if natural.PerPost != 0 || natural.Daily != 0 {
		t.Errorf("natural caps = %.0f/%.0f, want uncapped (0/0)", natural.PerPost, natural.Daily)
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := NewModeConfig(StaticMode(model.ModeBeta), Overrides{
		Velocity:  75,
		Diversity: 60,
		PerPost:   250,
		Daily:     1000,
	})

	th := cfg.Thresholds()
	if th.Velocity != 75 {
		t.Errorf("overridden velocity = %d, want 75", th.Velocity)
	}
	if th.Diversity != 60 {
		t.Errorf("overridden diversity = %.0f, want 60", th.Diversity)
	}
	// Untouched knobs keep defaults
	if th.CreatorVelocity != 50 {
		t.Errorf("creator velocity = %d, want default 50", th.CreatorVelocity)
	}

	caps := cfg.Caps()
	if caps.PerPost != 250 || caps.Daily != 1000 {
		t.Errorf("overridden caps = %.0f/%.0f, want 250/1000", caps.PerPost, caps.Daily)
	}
}

func TestCurrentModeDefaultsToBeta(t *testing.T) {
	cfg := NewModeConfig(nil, Overrides{})
	if got := cfg.CurrentMode(); got != model.ModeBeta {
		t.Errorf("CurrentMode() with nil provider = %s, want BETA", got)
	}
}

func TestStaticModeProvider(t *testing.T) {
	if got := StaticMode(model.ModeNatural).CurrentMode(); got != model.ModeNatural {
		t.Errorf("StaticMode(NATURAL).CurrentMode() = %s, want NATURAL", got)
	}
}
