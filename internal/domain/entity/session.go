package entity

import (
	"fmt"
	"strconv"
)

// SessionID идентификатор задачи, в которой развёрнута модель
type SessionID int64

// ParseSessionID разбирает идентификатор сессии из строки
func ParseSessionID(s string) (SessionID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", s)
	}
	return SessionID(id), nil
}

func (s SessionID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// SessionInfo диагностическая информация о развёрнутой модели, структура не фиксирована
type SessionInfo map[string]any
