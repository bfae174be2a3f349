package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFprobe returns the ffprobe binary that pairs with ffmpegBinary.
//
// When ffmpeg is configured as an explicit path (a static build unpacked
// somewhere off PATH), an ffprobe sitting next to it is preferred so both
// tools come from the same build. Otherwise plain "ffprobe" is resolved
// from PATH at execution time.
func ResolveFFprobe(ffmpegBinary string) string {
	const fallback = "ffprobe"
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	if ffmpegBinary == "" || !strings.ContainsRune(ffmpegBinary, filepath.Separator) {
		return fallback
	}
	resolved, err := exec.LookPath(ffmpegBinary)
	if err != nil {
		return fallback
	}
	candidate := filepath.Join(filepath.Dir(resolved), executableName(fallback))
	if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
		return candidate
	}
	return fallback
}

// CheckFFprobe reports the ffprobe binary the audio extractor will execute.
func CheckFFprobe(ffmpegBinary string) Status {
	result := Status{
		Name:        "FFprobe",
		Description: "Required to locate the audio stream",
	}
	command := ResolveFFprobe(ffmpegBinary)
	if path, err := exec.LookPath(command); err == nil {
		result.Command = path
		result.Available = true
		return result
	}
	result.Command = command
	result.Detail = fmt.Sprintf("binary %q not found", command)
	return result
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
