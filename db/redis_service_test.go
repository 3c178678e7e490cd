package db

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prayer-attendance-server/config"
	"prayer-attendance-server/models"
)

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := InitializeRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisService(client, "", zerolog.Nop()), mr
}

func TestRedisServiceLoadMissingKey(t *testing.T) {
	svc, _ := newTestRedis(t)

	store, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, store)
	assert.Equal(t, DefaultAttendanceKey, svc.Key)
}

func TestRedisServiceUpdateRoundTrip(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	err := svc.Update(ctx, func(store models.AttendanceStore) error {
		store[models.Fajr] = models.PrayerAttendance{
			"S1A": {
				ClassID:       "S1A",
				ClassName:     "S1-A",
				TotalStudents: 3,
				PresentCount:  2,
				AbsentStudents: []models.AbsentStudent{
					{Name: "Ali", RollNo: 2, Reason: "sick"},
				},
				Timestamp: 1700000000000,
			},
		}
		return nil
	})
	require.NoError(t, err)

	raw, err := mr.Get(DefaultAttendanceKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"Fajr"`)

	store, err := svc.Load(ctx)
	require.NoError(t, err)
	rec := store[models.Fajr]["S1A"]
	assert.Equal(t, "S1-A", rec.ClassName)
	assert.Equal(t, 2, rec.PresentCount)
	require.Len(t, rec.AbsentStudents, 1)
	assert.Equal(t, "sick", rec.AbsentStudents[0].Reason)
}

func TestRedisServiceUpdateErrorLeavesStoreUntouched(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(DefaultAttendanceKey, `{"Isha":{}}`))

	err := svc.Update(ctx, func(store models.AttendanceStore) error {
		delete(store, models.Isha)
		return models.ErrUnknownPrayer
	})
	require.ErrorIs(t, err, models.ErrUnknownPrayer)

	raw, err := mr.Get(DefaultAttendanceKey)
	require.NoError(t, err)
	assert.Equal(t, `{"Isha":{}}`, raw)
}

func TestRedisServiceCorruptDocument(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(DefaultAttendanceKey, "not json"))
	store, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, store)

	require.NoError(t, mr.Set(DefaultAttendanceKey, `{"Tahajjud":{"S1A":{"classId":"S1A"}},"asr":{}}`))
	store, err = svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, store, 1)
	assert.Contains(t, store, models.Asr)
}

func TestRedisServiceClear(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, func(store models.AttendanceStore) error {
		store[models.Dhuhr] = models.PrayerAttendance{}
		return nil
	}))
	require.True(t, mr.Exists(DefaultAttendanceKey))

	require.NoError(t, svc.Clear(ctx))
	assert.False(t, mr.Exists(DefaultAttendanceKey))

	// clearing twice is fine
	require.NoError(t, svc.Clear(ctx))
}

func TestRedisServiceConcurrentUpdatesKeepEveryClass(t *testing.T) {
	svc, _ := newTestRedis(t)
	ctx := context.Background()

	classes := []string{"S1A", "S1B", "S2A"}
	var wg sync.WaitGroup
	errs := make(chan error, len(classes))
	for _, id := range classes {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			var err error
			for i := 0; i < maxTxRetries; i++ {
				err = svc.Update(ctx, func(store models.AttendanceStore) error {
					if store[models.Maghrib] == nil {
						store[models.Maghrib] = models.PrayerAttendance{}
					}
					store[models.Maghrib][id] = models.ClassAttendance{ClassID: id}
					return nil
				})
				if err != ErrStoreConflict {
					break
				}
			}
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	store, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, store[models.Maghrib], len(classes))
}

func TestRedisServiceUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := InitializeRedisClient(context.Background(), config.RedisConfig{Addr: addr}, zerolog.Nop())
	require.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()
	svc := NewRedisService(client, "k", zerolog.Nop())
	_, err = svc.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.Ping(context.Background()))
}
