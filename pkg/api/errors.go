package api

// ErrorResponse представляет ответ с ошибкой для обычных HTTP запросов
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
