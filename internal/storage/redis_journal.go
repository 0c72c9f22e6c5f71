package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/annel0/fps-sim/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string // Адрес Redis сервера
	Password string // Пароль (пустой если не требуется)
	DB       int    // Номер базы данных
	Key      string // Ключ списка записей
	MaxLen   int    // Максимальная длина журнала
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:   "localhost:6379",
		Key:    "fps:journal",
		MaxLen: 10000,
	}
}

// RedisJournal хранит журнал в списке Redis, обрезая его до MaxLen
type RedisJournal struct {
	client *redis.Client
	key    string
	seqKey string
	maxLen int

	mu     sync.Mutex
	closed bool
}

// NewRedisJournal подключается к Redis и проверяет соединение
func NewRedisJournal(config *RedisConfig) (*RedisJournal, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	// Проверяем подключение
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("🔴 Журнал подключён к Redis %s (key=%s)", config.Addr, config.Key)
	return &RedisJournal{
		client: client,
		key:    config.Key,
		seqKey: config.Key + ":seq",
		maxLen: config.MaxLen,
	}, nil
}

func (j *RedisJournal) Append(ctx context.Context, e Entry) (uint64, error) {
	if j.isClosed() {
		return 0, ErrClosed
	}
	seq, err := j.client.Incr(ctx, j.seqKey).Uint64()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	e.Seq = seq

	data, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.RPush(ctx, j.key, data)
	if j.maxLen > 0 {
		pipe.LTrim(ctx, j.key, int64(-j.maxLen), -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis append: %w", err)
	}
	return seq, nil
}

func (j *RedisJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j.isClosed() {
		return nil, ErrClosed
	}
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	raw, err := j.client.LRange(ctx, j.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("ошибка десериализации записи: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (j *RedisJournal) Count(ctx context.Context) (int, error) {
	if j.isClosed() {
		return 0, ErrClosed
	}
	n, err := j.client.LLen(ctx, j.key).Result()
	return int(n), err
}

func (j *RedisJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.client.Close()
}

func (j *RedisJournal) isClosed() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closed
}
