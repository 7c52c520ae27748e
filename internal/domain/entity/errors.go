package entity

import "errors"

// Ошибки входных данных. Все они означают ошибку клиента, а не сервиса.
var (
	// ErrDecode байты не являются корректным изображением.
	ErrDecode = errors.New("invalid image data")
	// ErrSchema в таблице нет нужной колонки или значение не число.
	ErrSchema = errors.New("invalid table schema")
	// ErrEmptyInput в таблице нет ни одной строки данных.
	ErrEmptyInput = errors.New("empty input")
	// ErrInsufficientData для прогноза нужно минимум две точки.
	ErrInsufficientData = errors.New("insufficient data")
)

// IsClientError сообщает, вызвана ли ошибка некорректным вводом.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInsufficientData)
}
