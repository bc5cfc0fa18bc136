package generate

import (
	"github.com/rinaldofesta/superagents-sub002/internal/artifact"
	"github.com/rinaldofesta/superagents-sub002/internal/backend"
	"github.com/rinaldofesta/superagents-sub002/internal/profile"
)

// SelectTier maps an item to the capability tier it is generated at. Pure
// static policy: templated text goes to the cheapest tier, reasoning-heavy
// items go higher, and the overview always prefers the user's ceiling. The
// result never exceeds the ceiling.
func SelectTier(ceiling backend.Tier, kind artifact.Kind, complexity profile.Complexity) backend.Tier {
	var preferred backend.Tier

	switch kind {
	case artifact.KindOverview:
		preferred = ceiling
	case artifact.KindKnowledge:
		// Knowledge modules are mostly reference text; only high-complexity
		// topics earn a mid tier.
		if complexity == profile.ComplexityHigh {
			preferred = backend.TierBalanced
		} else {
			preferred = backend.TierFast
		}
	default:
		switch complexity {
		case profile.ComplexityHigh:
			preferred = backend.TierDeep
		case profile.ComplexityMedium:
			preferred = backend.TierBalanced
		default:
			preferred = backend.TierFast
		}
	}

	return preferred.Clamp(ceiling)
}
