package subtitles

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CountSRTCues counts non-empty cue blocks in an SRT file.
func CountSRTCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count, nil
}

// ParseSRTTimestamp converts HH:MM:SS,mmm (or with a period) into seconds.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// ValidateSRT checks a written SRT file against the number of cues expected.
// It returns the issues found; an empty slice means the file is consistent.
func ValidateSRT(path string, expected int) []string {
	var issues []string

	cues, err := CountSRTCues(path)
	if err != nil {
		return append(issues, fmt.Sprintf("read_error: %v", err))
	}
	if cues != expected {
		issues = append(issues, fmt.Sprintf("cue_count_mismatch: expected=%d found=%d", expected, cues))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return append(issues, fmt.Sprintf("read_error: %v", err))
	}
	for lineNo, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			issues = append(issues, fmt.Sprintf("malformed_timing: line=%d", lineNo+1))
			continue
		}
		if _, err := ParseSRTTimestamp(parts[0]); err != nil {
			issues = append(issues, fmt.Sprintf("timestamp_parse_error: line=%d: %v", lineNo+1, err))
		}
		if _, err := ParseSRTTimestamp(parts[1]); err != nil {
			issues = append(issues, fmt.Sprintf("timestamp_parse_error: line=%d: %v", lineNo+1, err))
		}
	}
	return issues
}
