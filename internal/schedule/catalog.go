package schedule

import "github.com/Freeeeeet/tutor_scheduler/internal/model"

// Границы рабочего окна: первый слот начинается в 07:00, последний заканчивается в 18:00
const (
	FirstHour = 7
	LastHour  = 18
)

// CatalogDays дни, для которых существуют слоты (воскресенье не рабочий день)
var CatalogDays = []model.Weekday{
	model.Monday,
	model.Tuesday,
	model.Wednesday,
	model.Thursday,
	model.Friday,
	model.Saturday,
}

// AllSlots возвращает все канонические часовые слоты недели по порядку
func AllSlots() []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(CatalogDays)*(LastHour-FirstHour))
	for _, day := range CatalogDays {
		for hour := FirstHour; hour < LastHour; hour++ {
			slots = append(slots, model.NewTimeSlot(day, hour))
		}
	}
	return slots
}

// InCatalog проверяет, что слот часовой и входит в каталог
func InCatalog(slot model.TimeSlot) bool {
	if slot.Hours.Hours() != 1 {
		return false
	}
	if slot.Hours.Start < FirstHour || slot.Hours.End > LastHour {
		return false
	}
	for _, day := range CatalogDays {
		if day == slot.Day {
			return true
		}
	}
	return false
}
