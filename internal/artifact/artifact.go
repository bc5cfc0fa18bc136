// Package artifact defines the generated-document types and the disk layout
// they are written in.
package artifact

// Kind distinguishes the three document families a run produces.
type Kind string

const (
	// KindSpecialist is an agent definition written under agents/.
	KindSpecialist Kind = "specialist"
	// KindKnowledge is a knowledge module written under knowledge/.
	KindKnowledge Kind = "knowledge"
	// KindOverview is the single project overview at the output root.
	KindOverview Kind = "overview"
)

func (k Kind) String() string {
	return string(k)
}

// Artifact is one generated Markdown document.
type Artifact struct {
	Kind    Kind
	Name    string
	Content string

	// Placeholder marks fallback content synthesized after generation
	// failed. Placeholders are written to disk but never cached.
	Placeholder bool

	// FromCache marks content served from the artifact cache.
	FromCache bool
}

// Bundle holds every artifact produced for one run, in request order.
type Bundle struct {
	Goal      string
	Artifacts []Artifact
}

// Add appends an artifact to the bundle.
func (b *Bundle) Add(a Artifact) {
	b.Artifacts = append(b.Artifacts, a)
}

// ByKind returns the bundle's artifacts of one kind, preserving order.
func (b *Bundle) ByKind(kind Kind) []Artifact {
	var out []Artifact
	for _, a := range b.Artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// Placeholders counts the fallback artifacts in the bundle.
func (b *Bundle) Placeholders() int {
	n := 0
	for _, a := range b.Artifacts {
		if a.Placeholder {
			n++
		}
	}
	return n
}

// FromCache counts the artifacts served from the cache.
func (b *Bundle) FromCache() int {
	n := 0
	for _, a := range b.Artifacts {
		if a.FromCache {
			n++
		}
	}
	return n
}
