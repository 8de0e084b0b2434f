package schedule

import (
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// Commitment набор сессий, уже занятых владельцем (класс учителя или заявка студента)
type Commitment struct {
	Key      string
	Label    string
	Sessions []model.Session
}

// Conflict описывает первое найденное пересечение
type Conflict struct {
	Key   string
	Label string
	Slot  model.TimeSlot
}

func (c *Conflict) String() string {
	return fmt.Sprintf("%s (%s) at %s", c.Label, c.Key, c.Slot)
}

// CheckConflict ищет пересечение кандидатских сессий с обязательствами.
// Обязательство с ключом excludeKey пропускается, чтобы запись не конфликтовала сама с собой.
// Возвращает первый конфликт в порядке входа или nil.
func CheckConflict(candidate []model.Session, commitments []Commitment, excludeKey string) *Conflict {
	owners := make(map[model.TimeSlot]int)
	for i, c := range commitments {
		if excludeKey != "" && c.Key == excludeKey {
			continue
		}
		for _, slot := range ExpandSessions(c.Sessions) {
			if _, taken := owners[slot]; !taken {
				owners[slot] = i
			}
		}
	}

	for _, slot := range ExpandSessions(candidate) {
		if i, ok := owners[slot]; ok {
			return &Conflict{
				Key:   commitments[i].Key,
				Label: commitments[i].Label,
				Slot:  slot,
			}
		}
	}

	return nil
}
