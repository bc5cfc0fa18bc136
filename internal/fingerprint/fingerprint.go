// Package fingerprint derives a stable content hash for a project, used as a
// cache-invalidation signal. The digest covers manifest file contents and the
// shape of the source tree (paths only, never content), so any manifest edit
// or file add/remove under the source root changes the digest.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Compute hashes the given manifest files and the source-tree listing into a
// 32-character hex digest (FNV-1a, 128-bit).
//
// Manifest paths are read in the given order; an absent or unreadable
// manifest contributes nothing. The path string itself is part of the hashed
// input, so callers should pass workspace-relative paths and the same list on
// every call. A missing sourceRoot contributes an empty listing; a sourceRoot
// that exists but cannot be walked is an error.
func Compute(manifestPaths []string, sourceRoot string) (string, error) {
	h := fnv.New128a()

	// Every field is length-prefixed so adjacent inputs cannot collide by
	// shifting bytes between them.
	var lenBuf [8]byte
	write := func(data []byte) {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
		h.Write(lenBuf[:])
		h.Write(data)
	}

	for _, path := range manifestPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		write([]byte(filepath.ToSlash(path)))
		write(data)
	}

	listing, err := listSourceFiles(sourceRoot)
	if err != nil {
		return "", err
	}
	for _, rel := range listing {
		write([]byte(rel))
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// skippedDirs are never part of the tree listing. The tool's own state dir
// must be excluded or cache writes would invalidate the fingerprint that
// keyed them.
var skippedDirs = map[string]bool{
	".git":         true,
	".superagents": true,
	"node_modules": true,
	"vendor":       true,
}

// listSourceFiles returns the sorted, slash-normalized relative paths of all
// regular files under root, skipping .git, dependency, and tool-state
// subtrees. A missing root yields an empty listing.
func listSourceFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source root %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
