package schedule

import "github.com/Freeeeeet/tutor_scheduler/internal/model"

// ExpandSession раскладывает сессию на часовые слоты.
// Сессия с некорректным временем не даёт ни одного слота.
func ExpandSession(session model.Session) []model.TimeSlot {
	if !session.Hours.IsValid() {
		return nil
	}
	slots := make([]model.TimeSlot, 0, session.Hours.Hours())
	for hour := session.Hours.Start; hour < session.Hours.End; hour++ {
		slots = append(slots, model.NewTimeSlot(session.Day, hour))
	}
	return slots
}

// ExpandSessions раскладывает все сессии на часовые слоты, сохраняя порядок входа
func ExpandSessions(sessions []model.Session) []model.TimeSlot {
	var slots []model.TimeSlot
	for _, session := range sessions {
		slots = append(slots, ExpandSession(session)...)
	}
	return slots
}

// ExpandToSessions превращает слоты обратно в часовые сессии в заданной аудитории
func ExpandToSessions(sessions []model.Session) []model.Session {
	var out []model.Session
	for _, session := range sessions {
		for _, slot := range ExpandSession(session) {
			out = append(out, model.Session{Day: slot.Day, Hours: slot.Hours, Room: session.Room})
		}
	}
	return out
}

// AvailableIn проверяет, что начало слота попадает в один из диапазонов того же дня.
// Диапазоны могут быть многочасовыми (старые данные).
func AvailableIn(slot model.TimeSlot, ranges []model.TimeSlot) bool {
	for _, r := range ranges {
		if r.Day != slot.Day {
			continue
		}
		if r.Hours.Contains(slot.Hours.Start) {
			return true
		}
	}
	return false
}
