package service

import (
	"regexp"
	"strings"

	"github.com/HavanaWeb3/HVNA-sub002/internal/model"
)

// Bot score weights. Penalties raise the score, credits lower it; the
// final score is clamped to [0, 100].
const (
	penaltySuspiciousUsername = 20
	penaltyMissingEmail       = 30
	penaltyDisposableEmail    = 35
	penaltyUnverifiedEmail    = 15
	penaltyZeroActivity       = 25
	penaltyLowActivityAged    = 10
	penaltyNewAndInactive     = 15
	penaltyLowTrustScore      = 15
	penaltySuspendedStatus    = 20
	penaltyProbationStatus    = 10

	creditVerifiedEmail  = 25
	creditCorporateEmail = 30
	creditHasPosts       = 20
	creditHasFollowers   = 15
	creditAgedAndActive  = 10

	likelyBotScore  = 60
	suspiciousScore = 30
	lowTrustCutoff  = 50
)

// disposableDomains are throwaway email providers.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"temp-mail.org":     true,
	"throwaway.email":   true,
	"yopmail.com":       true,
	"sharklasers.com":   true,
	"getnada.com":       true,
	"dispostable.com":   true,
}

// consumerDomains are mainstream personal email providers. A domain that
// is neither consumer nor disposable is treated as corporate.
var consumerDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"live.com":       true,
	"icloud.com":     true,
	"me.com":         true,
	"aol.com":        true,
	"proton.me":      true,
	"protonmail.com": true,
	"mail.com":       true,
	"gmx.com":        true,
}

var repeatedRunRe = regexp.MustCompile(`(.)\1{3,}`)

// BotDetector scores accounts for bot likelihood. Pure function of the
// account snapshot; no side effects and no mode dependence.
type BotDetector struct{}

func NewBotDetector() *BotDetector {
	return &BotDetector{}
}

// Assess evaluates a single account snapshot.
func (d *BotDetector) Assess(a *model.Account) *model.BotAssessment {
	score := 0
	var indicators []string

	penalize := func(points int, indicator string) {
		score += points
		indicators = append(indicators, indicator)
	}

	if SuspiciousUsername(a.Username) {
		penalize(penaltySuspiciousUsername, "suspicious_username")
	}

	domain := emailDomain(a.Email)
	switch {
	case a.Email == "":
		penalize(penaltyMissingEmail, "missing_email")
	case disposableDomains[domain]:
		penalize(penaltyDisposableEmail, "disposable_email")
	case !a.EmailVerified:
		penalize(penaltyUnverifiedEmail, "unverified_email")
	}

	activity := a.TotalActivity()
	age := a.AgeDays()
	switch {
	case activity == 0 && age < 1:
		penalize(penaltyZeroActivity, "zero_activity")
		penalize(penaltyNewAndInactive, "new_and_inactive")
	case activity == 0:
		penalize(penaltyZeroActivity, "zero_activity")
	case age > 7 && activity < 5:
		penalize(penaltyLowActivityAged, "low_activity_for_age")
	}

	if a.TrustScore != nil && *a.TrustScore < lowTrustCutoff {
		penalize(penaltyLowTrustScore, "low_trust_score")
	}

	switch a.Status {
	case model.StatusSuspended:
		penalize(penaltySuspendedStatus, "suspended")
	case model.StatusProbation:
		penalize(penaltyProbationStatus, "probation")
	}

	corporate := a.Email != "" && !disposableDomains[domain] && !consumerDomains[domain]

	if a.EmailVerified {
		score -= creditVerifiedEmail
	}
	if corporate {
		score -= creditCorporateEmail
	}
	if a.PostCount > 0 {
		score -= creditHasPosts
	}
	if a.FollowerCount > 0 {
		score -= creditHasFollowers
	}
	if age > 7 && activity > 0 {
		score -= creditAgedAndActive
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	protected := a.IsAdmin ||
		(a.EmailVerified && corporate) ||
		(a.EmailVerified && a.PostCount > 0)

	likelyBot := score >= likelyBotScore &&
		!a.EmailVerified &&
		activity == 0 &&
		!corporate

	suspicious := !likelyBot && !protected &&
		(score >= suspiciousScore || len(indicators) >= 2)

	rec := model.RecommendNeedsReview
	switch {
	case protected:
		rec = model.RecommendProtected
	case likelyBot:
		rec = model.RecommendSafeToDelete
	}

	return &model.BotAssessment{
		AccountID:      a.ID,
		BotScore:       score,
		Indicators:     indicators,
		IsProtected:    protected,
		IsLikelyBot:    likelyBot,
		IsSuspicious:   suspicious,
		Recommendation: rec,
	}
}

// SuspiciousUsername reports whether a username looks machine-generated:
// very long, dominated by consonant runs, or a repeated character run.
func SuspiciousUsername(name string) bool {
	if name == "" {
		return true
	}
	if len(name) > 24 {
		return true
	}
	if repeatedRunRe.MatchString(strings.ToLower(name)) {
		return true
	}
	return vowelRatio(name) < 0.15
}

func vowelRatio(name string) float64 {
	letters, vowels := 0, 0
	for _, r := range strings.ToLower(name) {
		if r < 'a' || r > 'z' {
			continue
		}
		letters++
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			vowels++
		}
	}
	if letters == 0 {
		// All-digit or all-symbol names carry no pronounceable signal.
		return 0
	}
	return float64(vowels) / float64(letters)
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
