package finance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idempotencyHeader = "Idempotency-Key"

// Client клиент финансовой подсистемы (серверные функции)
type Client struct {
	baseURL    string
	apiKey     string
	operation  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента финансовой подсистемы.
// Пустой operation заменяется на DefaultCompletionOperation.
func NewClient(baseURL, apiKey, operation string, timeout time.Duration, log Logger) *Client {
	if operation == "" {
		operation = DefaultCompletionOperation
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		operation: operation,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// IdempotencyKey детерминированный ключ проводки по записи: повторы одной проводки
// получают тот же ключ, и финансовая подсистема не создаёт вторую строку выручки.
func IdempotencyKey(appointmentID int64) string {
	name := fmt.Sprintf("appointment:%d:completed", appointmentID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// PostCompletion проводит выручку по завершённой записи
func (c *Client) PostCompletion(ctx context.Context, appointmentID int64) error {
	c.log.Info("Posting completion for appointment_id=%d", appointmentID)

	resp, err := c.Invoke(ctx, c.operation, CompletionPayload{AppointmentID: appointmentID}, IdempotencyKey(appointmentID))
	if err != nil {
		c.log.Error("Finance posting failed for appointment_id=%d: %v", appointmentID, err)
		return err
	}

	c.log.Info("Finance posting succeeded for appointment_id=%d (data=%d bytes)", appointmentID, len(resp.Data))
	return nil
}

// Invoke вызывает серверную функцию operation с JSON-телом payload
func (c *Client) Invoke(ctx context.Context, operation string, payload any, idempotencyKey string) (*Response, error) {
	url := fmt.Sprintf("%s/functions/v1/%s", c.baseURL, operation)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	// Обработка статус-кодов
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	// Парсим ответ
	var result Response
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !result.Success {
		return &result, fmt.Errorf("%w: %s", ErrRejected, result.Error)
	}

	return &result, nil
}
