package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rinaldofesta/superagents-sub002/internal/artifact"
	"github.com/rinaldofesta/superagents-sub002/internal/backend"
	"github.com/rinaldofesta/superagents-sub002/internal/profile"
)

func TestSelectTier_NeverExceedsCeiling(t *testing.T) {
	kinds := []artifact.Kind{artifact.KindSpecialist, artifact.KindKnowledge, artifact.KindOverview}
	complexities := []profile.Complexity{
		profile.ComplexityLow, profile.ComplexityMedium, profile.ComplexityHigh,
		profile.Complexity(""), profile.Complexity("bogus"),
	}

	for _, ceiling := range backend.Tiers() {
		for _, kind := range kinds {
			for _, cx := range complexities {
				got := SelectTier(ceiling, kind, cx)
				if got > ceiling {
					t.Errorf("SelectTier(%s, %s, %s) = %s, exceeds ceiling",
						ceiling, kind, cx, got)
				}
			}
		}
	}
}

func TestSelectTier_PolicyTable(t *testing.T) {
	cases := []struct {
		ceiling    backend.Tier
		kind       artifact.Kind
		complexity profile.Complexity
		want       backend.Tier
	}{
		{backend.TierDeep, artifact.KindSpecialist, profile.ComplexityLow, backend.TierFast},
		{backend.TierDeep, artifact.KindSpecialist, profile.ComplexityMedium, backend.TierBalanced},
		{backend.TierDeep, artifact.KindSpecialist, profile.ComplexityHigh, backend.TierDeep},
		{backend.TierDeep, artifact.KindKnowledge, profile.ComplexityLow, backend.TierFast},
		{backend.TierDeep, artifact.KindKnowledge, profile.ComplexityMedium, backend.TierFast},
		{backend.TierDeep, artifact.KindKnowledge, profile.ComplexityHigh, backend.TierBalanced},
		{backend.TierDeep, artifact.KindOverview, profile.ComplexityLow, backend.TierDeep},
		{backend.TierBalanced, artifact.KindOverview, profile.ComplexityHigh, backend.TierBalanced},
		{backend.TierFast, artifact.KindOverview, profile.ComplexityHigh, backend.TierFast},
		{backend.TierFast, artifact.KindSpecialist, profile.ComplexityHigh, backend.TierFast},
		{backend.TierBalanced, artifact.KindSpecialist, profile.ComplexityHigh, backend.TierBalanced},
	}

	for _, tc := range cases {
		got := SelectTier(tc.ceiling, tc.kind, tc.complexity)
		assert.Equal(t, tc.want, got,
			"SelectTier(%s, %s, %s)", tc.ceiling, tc.kind, tc.complexity)
	}
}

func TestSelectTier_OverviewTracksCeiling(t *testing.T) {
	for _, ceiling := range backend.Tiers() {
		assert.Equal(t, ceiling, SelectTier(ceiling, artifact.KindOverview, profile.ComplexityMedium))
	}
}

func TestSelectTier_Deterministic(t *testing.T) {
	first := SelectTier(backend.TierDeep, artifact.KindSpecialist, profile.ComplexityMedium)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SelectTier(backend.TierDeep, artifact.KindSpecialist, profile.ComplexityMedium))
	}
}
