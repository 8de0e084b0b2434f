package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// PersistenceError хранилище не приняло запись или не смогло её прочитать.
// Состояние в памяти при этом остаётся актуальным до конца сессии.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Key: key, Err: err}
}

// IsPersistence проверяет, что ошибка пришла из хранилища
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
