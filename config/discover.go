package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/keyishen/difyprobe/errors"
)

// Discover returns profile paths in load order. Explicitly given paths win
// over auto-discovery. Otherwise every config*.json in dir is used, with
// config.json first and the rest in lexicographic order; operators rely on
// this ordering for the positional agent1/agent2 default aliases.
func Discover(dir, primary, secondary string) ([]string, error) {
	if primary != "" || secondary != "" {
		var paths []string
		if primary != "" {
			paths = append(paths, primary)
		}
		if secondary != "" {
			paths = append(paths, secondary)
		}
		return paths, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "config*.json")
	if err != nil {
		return nil, errors.Wrapf(err, "could not scan %s for config files", dir)
	}
	sort.Strings(matches)

	var paths []string
	for _, m := range matches {
		if m == "config.json" {
			paths = append(paths, filepath.Join(dir, m))
		}
	}
	for _, m := range matches {
		if m != "config.json" {
			paths = append(paths, filepath.Join(dir, m))
		}
	}
	if len(paths) == 0 {
		return nil, errors.New("no config*.json files found in %s; create one or pass -config", dir)
	}
	return paths, nil
}
