// Package seed содержит предзаполненные данные доступности учителей.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/goccy/go-json"
)

//go:embed availability.json
var availabilityJSON []byte

// DefaultAvailability возвращает доступность учителей, известную до первого сохранения.
// Некоторые записи хранятся многочасовыми диапазонами, как в старых данных.
func DefaultAvailability() (map[string][]model.TimeSlot, error) {
	var defaults map[string][]model.TimeSlot
	if err := json.Unmarshal(availabilityJSON, &defaults); err != nil {
		return nil, fmt.Errorf("decode default availability: %w", err)
	}
	return defaults, nil
}
