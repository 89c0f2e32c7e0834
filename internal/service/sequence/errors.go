package sequence

import "errors"

var (
	// ErrSequenceOverflow возвращается, когда номер за день не помещается в формат
	ErrSequenceOverflow = errors.New("sequence: daily sequence overflow")

	// ErrInvalidSequence возвращается, когда счетчик вернул неположительное значение
	ErrInvalidSequence = errors.New("sequence: invalid sequence value")

	// ErrInternal возвращается при ошибках счетчика
	ErrInternal = errors.New("sequence: internal error")
)
