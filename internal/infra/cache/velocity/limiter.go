package velocity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "appointments:velocity"

// recordScript увеличивает счётчик и гарантирует TTL за один вызов.
// Ключ без срока жизни (ttl < 0) получает окно заново.
var recordScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Config ограничение количества записей с одного телефона за окно
type Config struct {
	MaxBookings int
	Window      time.Duration
}

// Result результат проверки
type Result struct {
	Allowed      bool
	CurrentCount int
	MaxAllowed   int
	WindowExpiry time.Time
}

// Limiter считает успешные записи по телефону в Redis.
// Allow только читает счётчик, Record увеличивает его после созданной записи.
type Limiter struct {
	redis  redis.Cmdable
	config Config
	logger Logger
}

// NewLimiter создает ограничитель. При MaxBookings <= 0 проверка всегда разрешает запись.
func NewLimiter(client redis.Cmdable, config Config, logger Logger) *Limiter {
	return &Limiter{
		redis:  client,
		config: config,
		logger: logger,
	}
}

func (l *Limiter) enabled() bool {
	return l != nil && l.redis != nil && l.config.MaxBookings > 0
}

func key(salonID int64, phone string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, salonID, phone)
}

// Allow проверяет, остался ли у телефона лимит записей в салоне. Счётчик не меняется.
// Если Redis недоступен, запись разрешается: лимит не должен блокировать бронирование.
func (l *Limiter) Allow(ctx context.Context, salonID int64, phone string) (*Result, error) {
	if !l.enabled() {
		return &Result{Allowed: true}, nil
	}

	k := key(salonID, phone)

	count, err := l.redis.Get(ctx, k).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Error("Velocity: failed to read %s: %v", k, err)
		return &Result{Allowed: true, MaxAllowed: l.config.MaxBookings}, nil
	}

	ttl, err := l.redis.PTTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = l.config.Window
	}

	result := &Result{
		Allowed:      count < l.config.MaxBookings,
		CurrentCount: count,
		MaxAllowed:   l.config.MaxBookings,
		WindowExpiry: time.Now().Add(ttl),
	}

	if !result.Allowed {
		l.logger.Warn("Velocity: limit exceeded for salon=%d phone=%s count=%d max=%d",
			salonID, phone, count, l.config.MaxBookings)
	}

	return result, nil
}

// Record учитывает созданную запись. Ошибка Redis возвращается вызывающему,
// сама запись при этом уже сохранена.
func (l *Limiter) Record(ctx context.Context, salonID int64, phone string) error {
	if !l.enabled() {
		return nil
	}

	k := key(salonID, phone)
	if err := recordScript.Run(ctx, l.redis, []string{k}, l.config.Window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("velocity: failed to record %s: %w", k, err)
	}
	return nil
}
