package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"prayer-attendance-server/config"
	"prayer-attendance-server/models"
)

const (
	DefaultAttendanceKey = "prayer_attendance" // String: the whole attendance store as JSON
	maxTxRetries         = 5
)

// RedisService keeps the attendance store as one JSON document in Redis
type RedisService struct {
	Client *redis.Client
	Key    string
	log    zerolog.Logger
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client, key string, log zerolog.Logger) *RedisService {
	if key == "" {
		key = DefaultAttendanceKey
	}
	return &RedisService{
		Client: client,
		Key:    key,
		log:    log.With().Str("component", "redis").Str("key", key).Logger(),
	}
}

// decode parses a stored document. Undecodable data and unknown prayer keys
// are dropped so a corrupt document never blocks the store.
func (s *RedisService) decode(raw string) models.AttendanceStore {
	store := models.AttendanceStore{}
	if raw == "" {
		return store
	}

	var loose map[string]models.PrayerAttendance
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		s.log.Warn().Err(err).Msg("attendance document is not valid JSON, starting from an empty store")
		return store
	}
	for name, bucket := range loose {
		p, err := models.ParsePrayer(name)
		if err != nil {
			s.log.Warn().Str("prayer", name).Msg("dropping unknown prayer bucket")
			continue
		}
		if bucket == nil {
			bucket = models.PrayerAttendance{}
		}
		store[p] = bucket
	}
	return store
}

// Load reads the whole attendance store
func (s *RedisService) Load(ctx context.Context) (models.AttendanceStore, error) {
	raw, err := s.Client.Get(ctx, s.Key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.AttendanceStore{}, nil
		}
		return nil, fmt.Errorf("failed to read attendance store from Redis: %w", err)
	}
	return s.decode(raw), nil
}

// Update applies fn to the store inside WATCH/MULTI/EXEC. When another
// writer changes the key in between, the transaction is retried on the new
// document.
func (s *RedisService) Update(ctx context.Context, fn func(models.AttendanceStore) error) error {
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, s.Key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		store := s.decode(raw)
		if err := fn(store); err != nil {
			return err
		}
		payload, err := json.Marshal(store)
		if err != nil {
			return fmt.Errorf("failed to encode attendance store: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.Key, payload, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxTxRetries; attempt++ {
		err := s.Client.Watch(ctx, txf, s.Key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("failed to update attendance store: %w", err)
		}
		s.log.Debug().Int("attempt", attempt).Msg("attendance store changed during update, retrying")
	}
	return ErrStoreConflict
}

// Clear deletes the attendance store
func (s *RedisService) Clear(ctx context.Context) error {
	if err := s.Client.Del(ctx, s.Key).Err(); err != nil {
		return fmt.Errorf("failed to clear attendance store: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable
func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// --- Utility ---

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("connected to Redis")
	return rdb, nil
}
