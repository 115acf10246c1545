package houselock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotAcquired возвращается, когда блокировку не удалось взять до отмены контекста
	ErrNotAcquired = errors.New("houselock: lock not acquired")
	// ErrLockBackend возвращается при недоступности хранилища блокировок
	ErrLockBackend = errors.New("houselock: lock backend failure")
)

// Logger интерфейс логгера распределённой блокировки
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Locker сериализует изменения размещения внутри одного дома.
// Возвращаемая функция освобождает блокировку, повторный вызов безопасен.
type Locker interface {
	Lock(ctx context.Context, houseID int64) (func(), error)
}

// LocalLocker блокировка в памяти процесса
type LocalLocker struct {
	mu    sync.Mutex
	slots map[int64]chan struct{}
}

// NewLocal создает блокировку в памяти процесса
func NewLocal() *LocalLocker {
	return &LocalLocker{slots: make(map[int64]chan struct{})}
}

func (l *LocalLocker) slot(houseID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[houseID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[houseID] = ch
	}
	return ch
}

// Lock ждёт освобождения дома или отмены контекста
func (l *LocalLocker) Lock(ctx context.Context, houseID int64) (func(), error) {
	ch := l.slot(houseID)

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: house=%d: %v", ErrNotAcquired, houseID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}

// releaseScript удаляет ключ, только если он принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript продлевает TTL ключа, только если он принадлежит владельцу
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker распределённая блокировка на SET NX с TTL.
// Пока блокировка удерживается, TTL продлевается каждые ttl/3.
type RedisLocker struct {
	client        redis.UniversalClient
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	logger        Logger
}

// NewRedis создает распределённую блокировку
func NewRedis(client redis.UniversalClient, prefix string, ttl, retryInterval time.Duration, logger Logger) *RedisLocker {
	if retryInterval <= 0 {
		retryInterval = 50 * time.Millisecond
	}
	return &RedisLocker{
		client:        client,
		prefix:        prefix,
		ttl:           ttl,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

func (l *RedisLocker) key(houseID int64) string {
	return fmt.Sprintf("%shouse:%d", l.prefix, houseID)
}

// Lock пытается взять ключ дома до отмены контекста.
// Ошибка Redis возвращается как ErrLockBackend, занятый до дедлайна ключ как ErrNotAcquired.
func (l *RedisLocker) Lock(ctx context.Context, houseID int64) (func(), error) {
	key := l.key(houseID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: house=%d: %v", ErrNotAcquired, houseID, ctx.Err())
			}
			return nil, fmt.Errorf("%w: house=%d: %v", ErrLockBackend, houseID, err)
		}
		if ok {
			break
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: house=%d: %v", ErrNotAcquired, houseID, ctx.Err())
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.refresh(key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			// Контекст запроса может быть уже отменён
			releaseCtx, cancel := context.WithTimeout(context.Background(), l.ttl)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Error("houselock: failed to release %s: %v", key, err)
			}
		})
	}, nil
}

// refresh продлевает ключ до закрытия stop или потери владения
func (l *RedisLocker) refresh(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			res, err := refreshScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int64()
			cancel()
			if err != nil {
				l.logger.Warn("houselock: failed to refresh %s: %v", key, err)
				continue
			}
			if res == 0 {
				l.logger.Error("houselock: lock %s lost before release", key)
				return
			}
		}
	}
}
