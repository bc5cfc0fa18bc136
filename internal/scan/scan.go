// Package scan summarizes a workspace: file and language counts, test file
// count, and the dependency manifests present. The summary feeds profile
// recommendation and the overview prompt, and is cached for a day keyed by
// the workspace fingerprint.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rinaldofesta/superagents-sub002/internal/cache"
	"github.com/rinaldofesta/superagents-sub002/internal/fingerprint"
)

// manifestProbes is the fixed probe order for dependency manifests. Order is
// part of the fingerprint contract: the same list in the same order on every
// call.
var manifestProbes = []string{
	"go.mod",
	"package.json",
	"Cargo.toml",
	"pyproject.toml",
	"requirements.txt",
	"pom.xml",
	"build.gradle",
	"Gemfile",
	"composer.json",
}

// Result is the serializable outcome of one workspace scan.
type Result struct {
	Root          string         `json:"root"`
	Files         int            `json:"files"`
	Directories   int            `json:"directories"`
	Languages     map[string]int `json:"languages"`
	ManifestPaths []string       `json:"manifest_paths"`
	TestFileCount int            `json:"test_file_count"`
	Fingerprint   string         `json:"fingerprint"`
}

// LanguageNames returns the scanned languages ordered by file count,
// descending, ties broken alphabetically.
func (r *Result) LanguageNames() []string {
	names := make([]string, 0, len(r.Languages))
	for name := range r.Languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.Languages[names[i]] != r.Languages[names[j]] {
			return r.Languages[names[i]] > r.Languages[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// IsManifest reports whether a base name is one of the probed manifests.
func IsManifest(name string) bool {
	for _, probe := range manifestProbes {
		if name == probe {
			return true
		}
	}
	return false
}

// Manifests probes root for known dependency manifests and returns the
// relative names present, in probe order.
func Manifests(root string) []string {
	var found []string
	for _, name := range manifestProbes {
		info, err := os.Stat(filepath.Join(root, name))
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, name)
	}
	return found
}

// ManifestFilePaths joins the result's manifest names onto root, in order.
func (r *Result) ManifestFilePaths() []string {
	paths := make([]string, len(r.ManifestPaths))
	for i, name := range r.ManifestPaths {
		paths[i] = filepath.Join(r.Root, name)
	}
	return paths
}

// Scanner walks a workspace and summarizes it.
type Scanner struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// New creates a scanner. A nil cache disables scan caching.
func New(c *cache.Cache, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{cache: c, logger: logger}
}

// Scan summarizes the workspace at root. A cached summary is reused when the
// workspace fingerprint is unchanged and the entry is fresh.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	manifests := Manifests(root)
	manifestFiles := make([]string, len(manifests))
	for i, name := range manifests {
		manifestFiles[i] = filepath.Join(root, name)
	}

	fp, err := fingerprint.Compute(manifestFiles, root)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint workspace: %w", err)
	}

	key := cacheKey(fp)
	if s.cache != nil {
		if data, ok := s.cache.Get(key, cache.ClassScan); ok {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				s.logger.Debug("scan cache hit", zap.String("fingerprint", fp))
				return &cached, nil
			}
		}
	}

	result, err := s.walk(ctx, root)
	if err != nil {
		return nil, err
	}
	result.ManifestPaths = manifests
	result.Fingerprint = fp

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			s.cache.Put(key, data, cache.ClassScan)
		}
	}

	s.logger.Debug("scanned workspace",
		zap.String("root", root),
		zap.Int("files", result.Files),
		zap.Int("test_files", result.TestFileCount))
	return result, nil
}

func cacheKey(fp string) cache.Key {
	return cache.Key{Fingerprint: fp, Kind: "scan", Name: "workspace"}
}

// hiddenAllowed names the hidden directories worth descending into; every
// other hidden directory is skipped.
var hiddenAllowed = map[string]bool{
	".github":   true,
	".vscode":   true,
	".circleci": true,
	".config":   true,
}

func (s *Scanner) walk(ctx context.Context, root string) (*Result, error) {
	result := &Result{
		Root:      root,
		Languages: make(map[string]int),
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if path != root {
				if strings.HasPrefix(name, ".") && !hiddenAllowed[name] {
					return filepath.SkipDir
				}
				if name == "node_modules" || name == "vendor" {
					return filepath.SkipDir
				}
				result.Directories++
			}
			return nil
		}

		result.Files++
		if lang := detectLanguage(path); lang != "" {
			result.Languages[lang]++
		}
		if isTestFile(path) {
			result.TestFileCount++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return result, nil
}
