package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err   error
	delay time.Duration
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func TestDefaultCheckerConfig(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultCheckerConfig().Timeout)
}

func TestDatabaseChecker(t *testing.T) {
	tests := []struct {
		name    string
		db      Pinger
		wantErr string
	}{
		{"nil pool", nil, "database connection is nil"},
		{"healthy", &fakePinger{}, ""},
		{"paused project", &fakePinger{err: errors.New("project is paused")}, "project is paused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DatabaseChecker(tt.db)()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseCheckerWithConfig_Timeout(t *testing.T) {
	check := DatabaseCheckerWithConfig(&fakePinger{delay: time.Second}, CheckerConfig{Timeout: 10 * time.Millisecond})

	assert.ErrorIs(t, check(), context.DeadlineExceeded)
}

func TestRedisChecker(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	check := RedisChecker(db)

	assert.NoError(t, check())
	assert.Error(t, check())
	assert.EqualError(t, RedisChecker(nil)(), "redis client is nil")
}
