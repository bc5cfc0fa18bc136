package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_LaysOutBundle(t *testing.T) {
	outDir := t.TempDir()

	bundle := &Bundle{Goal: "build a REST API"}
	bundle.Add(Artifact{Kind: KindSpecialist, Name: "Backend Specialist", Content: "# Backend\n"})
	bundle.Add(Artifact{Kind: KindKnowledge, Name: "API Conventions", Content: "# Conventions\n"})
	bundle.Add(Artifact{Kind: KindOverview, Name: "overview", Content: "# Overview\n"})

	w := NewWriter(outDir, nil)
	paths, err := w.Write(bundle)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, filepath.Join(outDir, "agents", "backend-specialist.md"), paths[0])
	assert.Equal(t, filepath.Join(outDir, "knowledge", "api-conventions.md"), paths[1])
	assert.Equal(t, filepath.Join(outDir, "OVERVIEW.md"), paths[2])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "# Backend\n", string(data))
}

func TestWriter_PlaceholdersAreWritten(t *testing.T) {
	outDir := t.TempDir()

	bundle := &Bundle{Goal: "g"}
	bundle.Add(Artifact{Kind: KindSpecialist, Name: "db", Content: "placeholder", Placeholder: true})

	w := NewWriter(outDir, nil)
	paths, err := w.Write(bundle)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(filepath.Join(outDir, "agents", "db.md"))
	require.NoError(t, err)
	assert.Equal(t, "placeholder", string(data))
}

func TestWriter_EmptyBundle(t *testing.T) {
	w := NewWriter(t.TempDir(), nil)
	paths, err := w.Write(&Bundle{})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFileName_Sanitizes(t *testing.T) {
	cases := map[string]string{
		"Backend Specialist":  "backend-specialist.md",
		"api/v2 (draft)":      "api-v2-draft.md",
		"Frontend":            "frontend.md",
		"  ":                  "artifact.md",
		"data_pipeline-owner": "data_pipeline-owner.md",
	}
	for in, want := range cases {
		assert.Equal(t, want, fileName(in), "fileName(%q)", in)
	}
}

func TestBundle_ByKindAndPlaceholders(t *testing.T) {
	b := &Bundle{}
	b.Add(Artifact{Kind: KindSpecialist, Name: "a"})
	b.Add(Artifact{Kind: KindKnowledge, Name: "b", Placeholder: true})
	b.Add(Artifact{Kind: KindSpecialist, Name: "c", Placeholder: true})

	specs := b.ByKind(KindSpecialist)
	require.Len(t, specs, 2)
	assert.Equal(t, "a", specs[0].Name)
	assert.Equal(t, "c", specs[1].Name)
	assert.Equal(t, 2, b.Placeholders())
	assert.Empty(t, b.ByKind(KindOverview))
}
