package service

import "errors"

var (
	// ErrServiceNotFound возвращается, когда активная услуга не найдена
	ErrServiceNotFound = errors.New("service.repository: service not found")

	// ErrTemplateNotFound возвращается, когда на день недели нет шаблона расписания
	ErrTemplateNotFound = errors.New("service.repository: schedule template not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("service.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("service.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("service.repository: failed to scan row")
)
