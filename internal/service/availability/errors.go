package availability

import "errors"

var (
	// ErrInvalidSchedule возвращается, когда расписание в хранилище некорректно
	ErrInvalidSchedule = errors.New("availability: invalid schedule")

	// ErrInternal возвращается при ошибках чтения из хранилища
	ErrInternal = errors.New("availability: internal error")
)
