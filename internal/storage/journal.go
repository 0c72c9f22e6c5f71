package storage

import (
	"context"
	"errors"
	"time"
)

// ErrClosed возвращается при обращении к закрытому журналу
var ErrClosed = errors.New("журнал закрыт")

// Entry - запись боевого журнала
type Entry struct {
	Seq    uint64    `json:"seq"`
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Tick   uint64    `json:"tick"`
	Type   string    `json:"type"`
	Actor  uint64    `json:"actor,omitempty"`
	Name   string    `json:"name,omitempty"`
	Value  int       `json:"value,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Journal определяет хранилище боевых событий.
// Записи нумеруются по порядку добавления начиная с 1.
type Journal interface {
	// Append добавляет запись и возвращает присвоенный номер
	Append(ctx context.Context, e Entry) (uint64, error)

	// Recent возвращает не более limit последних записей в порядке добавления
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Count возвращает число записей
	Count(ctx context.Context) (int, error)

	Close() error
}

// Backend - тип хранилища журнала
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendBadger Backend = "badger"
	BackendRedis  Backend = "redis"
)

// Options - параметры открытия журнала
type Options struct {
	Backend   Backend `yaml:"backend"`
	Path      string  `yaml:"path"`       // каталог badger, пусто - в памяти
	RedisAddr string  `yaml:"redis_addr"` // адрес Redis
	RedisDB   int     `yaml:"redis_db"`
	Key       string  `yaml:"key"`
	MaxLen    int     `yaml:"max_len"` // 0 - без ограничения
}

// Open открывает журнал выбранного типа
func Open(opts Options) (Journal, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryJournal(opts.MaxLen), nil
	case BackendBadger:
		return NewBadgerJournal(opts.Path)
	case BackendRedis:
		cfg := DefaultRedisConfig()
		if opts.RedisAddr != "" {
			cfg.Addr = opts.RedisAddr
		}
		cfg.DB = opts.RedisDB
		if opts.Key != "" {
			cfg.Key = opts.Key
		}
		if opts.MaxLen > 0 {
			cfg.MaxLen = opts.MaxLen
		}
		return NewRedisJournal(cfg)
	default:
		return nil, errors.New("неизвестный тип журнала: " + string(opts.Backend))
	}
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
