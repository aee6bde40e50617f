package finance

import "encoding/json"

// DefaultCompletionOperation операция проводки выручки по завершённой записи
const DefaultCompletionOperation = "process-appointment-completion"

// CompletionPayload тело запроса на проводку
type CompletionPayload struct {
	AppointmentID int64 `json:"appointment_id"`
}

// Response ответ финансовой функции
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
