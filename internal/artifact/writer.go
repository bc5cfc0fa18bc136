package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Writer lays a bundle out on disk:
//
//	<out>/agents/<name>.md      specialists
//	<out>/knowledge/<name>.md   knowledge modules
//	<out>/OVERVIEW.md           the overview
type Writer struct {
	outDir string
	logger *zap.Logger
}

// NewWriter creates a writer rooted at outDir.
func NewWriter(outDir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{outDir: outDir, logger: logger}
}

// Write persists every artifact in the bundle and returns the written paths
// in bundle order. Unlike cache writes, output writes are fatal on error.
func (w *Writer) Write(bundle *Bundle) ([]string, error) {
	var written []string
	for _, a := range bundle.Artifacts {
		path := w.pathFor(a)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		w.logger.Debug("wrote artifact",
			zap.String("kind", a.Kind.String()),
			zap.String("path", path),
			zap.Bool("placeholder", a.Placeholder))
		written = append(written, path)
	}
	return written, nil
}

// pathFor maps an artifact to its on-disk location.
func (w *Writer) pathFor(a Artifact) string {
	switch a.Kind {
	case KindOverview:
		return filepath.Join(w.outDir, "OVERVIEW.md")
	case KindKnowledge:
		return filepath.Join(w.outDir, "knowledge", fileName(a.Name))
	default:
		return filepath.Join(w.outDir, "agents", fileName(a.Name))
	}
}

// fileName makes an artifact name filesystem safe.
func fileName(name string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	slug := re.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "artifact"
	}
	return slug + ".md"
}
