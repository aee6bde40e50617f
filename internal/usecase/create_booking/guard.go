package create_booking

import "sync"

// inFlightGuard не даёт одной сессии отправить вторую заявку, пока первая не завершилась.
// Это не межклиентская блокировка слота: уникальность слота обеспечивает хранилище.
type inFlightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInFlightGuard() *inFlightGuard {
	return &inFlightGuard{active: make(map[string]struct{})}
}

// acquire занимает ключ. Возвращает release и true, либо nil и false, если ключ уже занят.
func (g *inFlightGuard) acquire(key string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[key]; busy {
		return nil, false
	}
	g.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, true
}
