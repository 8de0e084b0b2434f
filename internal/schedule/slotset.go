package schedule

import (
	"sort"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// SlotSet множество часовых слотов
type SlotSet map[model.TimeSlot]struct{}

// NewSlotSet создаёт множество из списка слотов
func NewSlotSet(slots ...model.TimeSlot) SlotSet {
	set := make(SlotSet, len(slots))
	for _, s := range slots {
		set.Add(s)
	}
	return set
}

func (s SlotSet) Add(slot model.TimeSlot) {
	s[slot] = struct{}{}
}

func (s SlotSet) Has(slot model.TimeSlot) bool {
	_, ok := s[slot]
	return ok
}

// Minus возвращает слоты s, отсутствующие в other
func (s SlotSet) Minus(other SlotSet) SlotSet {
	out := make(SlotSet, len(s))
	for slot := range s {
		if !other.Has(slot) {
			out.Add(slot)
		}
	}
	return out
}

// Sorted возвращает слоты, упорядоченные по дню недели и часу начала
func (s SlotSet) Sorted() []model.TimeSlot {
	out := make([]model.TimeSlot, 0, len(s))
	for slot := range s {
		out = append(out, slot)
	}
	SortSlots(out)
	return out
}

// SortSlots сортирует слоты по индексу дня (Пн=1 ... Вс=7), затем по часу
func SortSlots(slots []model.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := slots[i].Day.Index(), slots[j].Day.Index()
		if di != dj {
			return di < dj
		}
		return slots[i].Hours.Start < slots[j].Hours.Start
	})
}
