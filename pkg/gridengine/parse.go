package gridengine

import "strings"

// ExtractJobState returns the value of the job_state field from a qstat
// live report, or "" when no such field is present. For array tasks qstat
// prints one job_state line per task; the last one wins, matching how the
// report is read top to bottom.
func ExtractJobState(report string) string {
	state := ""
	for _, line := range strings.Split(report, "\n") {
		if !strings.HasPrefix(line, "job_state") {
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 {
			state = strings.TrimSpace(line[idx+1:])
		}
	}
	return state
}

// IsUsageLine reports whether a qstat report line is a per-task resource
// usage report ("usage    1:    cpu=..., mem=..., wallclock=...").
func IsUsageLine(line string) bool {
	return strings.HasPrefix(line, "usage")
}

// ParseUsageFields extracts the name=value pairs from a qstat usage line.
// Pairs are comma separated; anything before the name's last separator
// (the "usage    1:" prefix on the first pair) is dropped. Chunks without
// an "=" are skipped.
func ParseUsageFields(line string) map[string]string {
	fields := make(map[string]string)
	for _, chunk := range strings.Split(line, ",") {
		eq := strings.Index(chunk, "=")
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(chunk[:eq])
		if idx := strings.LastIndexAny(name, " \t:"); idx >= 0 {
			name = name[idx+1:]
		}
		if name == "" {
			continue
		}
		fields[name] = strings.TrimSpace(chunk[eq+1:])
	}
	return fields
}

// ParseAccounting converts qacct output into a key→value map. The first
// whitespace-delimited token of each line is the key and the trimmed
// remainder is the value; lines without both parts are skipped.
func ParseAccounting(report string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.IndexAny(line, " \t")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}
		props[line[:idx]] = value
	}
	return props
}
