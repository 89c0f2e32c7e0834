package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда активная услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
