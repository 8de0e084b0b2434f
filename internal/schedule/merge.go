package schedule

import (
	"sort"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// MergeSessions склеивает соседние сессии одного дня в одной аудитории.
// Сессии разных дней или разных аудиторий никогда не объединяются.
func MergeSessions(sessions []model.Session) []model.Session {
	if len(sessions) <= 1 {
		return sessions
	}

	sorted := append([]model.Session(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Day.Index(), sorted[j].Day.Index()
		if di != dj {
			return di < dj
		}
		return sorted[i].Hours.Start < sorted[j].Hours.Start
	})

	merged := make([]model.Session, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Day == current.Day && next.Room == current.Room && next.Hours.Start == current.Hours.End {
			current.Hours.End = next.Hours.End
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}
