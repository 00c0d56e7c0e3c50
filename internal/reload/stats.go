package reload

import "github.com/ofirwie/qlikfox/internal/model"

// Aggregate computes statistics over a set of reload tasks. Pure function:
// recomputed on demand, never stored.
func Aggregate(tasks []model.ReloadTask) model.ReloadStatistics {
	stats := model.ReloadStatistics{TotalReloads: len(tasks)}

	var durationSum float64
	var durationCount int
	for i := range tasks {
		t := &tasks[i]
		switch t.State {
		case model.StateSucceeded:
			stats.Succeeded++
			if t.Duration > 0 {
				durationSum += t.Duration
				durationCount++
			}
			if stats.LastSuccessful == nil || t.EndTime > stats.LastSuccessful.EndTime {
				stats.LastSuccessful = t
			}
		case model.StateFailed, model.StateError:
			stats.Failed++
			if stats.LastFailed == nil || t.EndTime > stats.LastFailed.EndTime {
				stats.LastFailed = t
			}
		case model.StateCanceled, model.StateSkipped:
			stats.Canceled++
		default:
			stats.InProgress++
		}
	}

	if durationCount > 0 {
		stats.AverageDuration = durationSum / float64(durationCount)
	}
	if stats.TotalReloads > 0 {
		stats.SuccessRate = float64(stats.Succeeded) / float64(stats.TotalReloads) * 100
		stats.FailureRate = float64(stats.Failed) / float64(stats.TotalReloads) * 100
	}
	return stats
}
