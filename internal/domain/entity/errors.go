package entity

import "errors"

// Ошибки пайплайна. Вызывающий код оборачивает их через %w и проверяет errors.Is.
var (
	ErrSessionUnavailable = errors.New("session unavailable")
	ErrSettingsParse      = errors.New("settings parse error")
	ErrInvalidRegion      = errors.New("invalid region")
	ErrSchemaMismatch     = errors.New("schema mismatch")
	ErrBatchSizeMismatch  = errors.New("batch size mismatch")
	ErrWrite              = errors.New("write error")
)
