package preflight

import (
	"path/filepath"

	"subextract/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckVideo(cfg.Input.VideoPath),
		CheckDirectoryAccess("Working directory", "."),
	}

	seen := map[string]bool{".": true}
	for _, path := range []string{cfg.Output.TxtPath, cfg.Output.SRTPath, cfg.Output.JSONPath, cfg.Output.AudioPath} {
		dir := filepath.Dir(path)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		results = append(results, CheckDirectoryAccess("Output directory", dir))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Transcript cache", filepath.Dir(cfg.Cache.Path)))
	}
	return results
}
