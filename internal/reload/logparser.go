package reload

import (
	"regexp"
	"strings"

	"github.com/ofirwie/qlikfox/internal/model"
)

// First ISO-8601-looking substring per line; timezone suffix optional.
var isoTimestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`)

// ParseCloudLog turns a raw multi-line reload script log into structured
// entries plus level counts. Level detection is a case-insensitive
// substring match, matching how the script engine writes its lines.
func ParseCloudLog(raw string) *model.ReloadLog {
	log := &model.ReloadLog{Entries: []model.LogEntry{}}
	if raw == "" {
		return log
	}
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry := model.LogEntry{
			LineNumber: i + 1,
			Timestamp:  isoTimestampRe.FindString(line),
			Level:      detectLevel(line),
			Message:    line,
		}
		log.Entries = append(log.Entries, entry)
		switch entry.Level {
		case model.LogLevelError:
			log.Summary.Errors++
		case model.LogLevelWarn:
			log.Summary.Warnings++
		default:
			log.Summary.Info++
		}
	}
	log.Summary.TotalLines = len(log.Entries)
	return log
}

func detectLevel(line string) model.LogLevel {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "FAILED"):
		return model.LogLevelError
	case strings.Contains(upper, "WARN"):
		return model.LogLevelWarn
	default:
		return model.LogLevelInfo
	}
}

// OnPremLogPlaceholder is the structured stand-in for backends with no log
// endpoint. The summary is derived purely from the terminal status code:
// one error iff the task finished in FinishedFail.
func OnPremLogPlaceholder(statusCode int) *model.ReloadLog {
	log := &model.ReloadLog{
		Entries: []model.LogEntry{},
		Note:    onPremLogNote,
	}
	if statusCode == 8 {
		log.Summary.Errors = 1
	}
	return log
}
