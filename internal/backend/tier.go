// Package backend holds the generative backend clients, the capability tier
// order, and the typed error surface the retry policy classifies against.
package backend

import (
	"fmt"
	"strings"
)

// Tier is a ranked backend capability level. The order is total: higher
// tiers cost more and reason better. Comparisons use the integer order.
type Tier int

const (
	// TierFast is the cheapest tier, for templated or simple text.
	TierFast Tier = iota
	// TierBalanced is the default cost/quality tradeoff.
	TierBalanced
	// TierDeep is the most capable tier, for multi-step reasoning.
	TierDeep
)

// Tiers lists all tiers cheapest-first.
func Tiers() []Tier {
	return []Tier{TierFast, TierBalanced, TierDeep}
}

func (t Tier) String() string {
	switch t {
	case TierFast:
		return "fast"
	case TierDeep:
		return "deep"
	default:
		return "balanced"
	}
}

// Clamp returns t, lowered to ceiling when t exceeds it.
func (t Tier) Clamp(ceiling Tier) Tier {
	if t > ceiling {
		return ceiling
	}
	return t
}

// ParseTier resolves a tier name. Matching is case-insensitive.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return TierFast, nil
	case "balanced", "":
		return TierBalanced, nil
	case "deep":
		return TierDeep, nil
	default:
		return TierBalanced, fmt.Errorf("unknown tier: %s (valid: fast, balanced, deep)", s)
	}
}
