package generate

import (
	"fmt"

	"github.com/rinaldofesta/superagents-sub002/internal/artifact"
	"github.com/rinaldofesta/superagents-sub002/internal/backend"
	"github.com/rinaldofesta/superagents-sub002/internal/profile"
	"github.com/rinaldofesta/superagents-sub002/internal/prompt"
	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

// Plan is the concrete task list for one run: every requested item with its
// prompt attached and its tier resolved.
type Plan struct {
	Specialists []Task
	Knowledge   []Task
	Overview    Task
}

// Total counts every task in the plan.
func (p *Plan) Total() int {
	return len(p.Specialists) + len(p.Knowledge) + 1
}

// BuildPlan expands a goal, a scan, and the recommended profiles into tasks.
// One specialist task per profile, one knowledge task per distinct knowledge
// spec (first owner wins), one overview task. Tier selection happens here so
// the orchestrator only ever sees resolved tiers.
func BuildPlan(goal string, scanResult *scan.Result, profiles []profile.Profile, ceiling backend.Tier) (*Plan, error) {
	plan := &Plan{}

	seenKnowledge := make(map[string]bool)
	for _, p := range profiles {
		text, err := prompt.Specialist(goal, p, scanResult)
		if err != nil {
			return nil, fmt.Errorf("failed to build prompt for %s: %w", p.Name, err)
		}
		plan.Specialists = append(plan.Specialists, Task{
			Kind:   artifact.KindSpecialist,
			Name:   p.Name,
			Prompt: text,
			Tier:   SelectTier(ceiling, artifact.KindSpecialist, p.Complexity),
		})

		for _, spec := range p.Knowledge {
			if seenKnowledge[spec.Name] {
				continue
			}
			seenKnowledge[spec.Name] = true

			text, err := prompt.Knowledge(goal, p, spec, scanResult)
			if err != nil {
				return nil, fmt.Errorf("failed to build prompt for %s: %w", spec.Name, err)
			}
			plan.Knowledge = append(plan.Knowledge, Task{
				Kind:   artifact.KindKnowledge,
				Name:   spec.Name,
				Prompt: text,
				Tier:   SelectTier(ceiling, artifact.KindKnowledge, p.Complexity),
			})
		}
	}

	overviewText, err := prompt.Overview(goal, scanResult, profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to build overview prompt: %w", err)
	}
	plan.Overview = Task{
		Kind:   artifact.KindOverview,
		Name:   "overview",
		Prompt: overviewText,
		Tier:   SelectTier(ceiling, artifact.KindOverview, profile.ComplexityHigh),
	}

	return plan, nil
}
