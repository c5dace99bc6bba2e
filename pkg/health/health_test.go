package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing() CheckFunc {
	return func(_ context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func probe(t *testing.T, endpoint http.HandlerFunc) (int, probeResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body probeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestLiveEndpoint(t *testing.T) {
	t.Run("all passing", func(t *testing.T) {
		s := New()
		s.AddLivenessCheck("one", time.Second, passing())
		s.AddLivenessCheck("two", time.Second, passing())

		code, body := probe(t, s.LiveEndpoint)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("no checks", func(t *testing.T) {
		code, _ := probe(t, New().LiveEndpoint)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("failure past threshold", func(t *testing.T) {
		s := New()
		s.AddLivenessCheck("db", time.Second, failing("connection refused"))

		ctx := context.Background()
		for range failureThreshold {
			s.liveness[0].run(ctx)
		}

		code, body := probe(t, s.LiveEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "connection refused", body.Checks["db"])
	})

	t.Run("failure below threshold stays healthy", func(t *testing.T) {
		s := New()
		s.AddLivenessCheck("flaky", time.Second, failing("temporary"))

		ctx := context.Background()
		for range failureThreshold - 1 {
			s.liveness[0].run(ctx)
		}

		code, _ := probe(t, s.LiveEndpoint)
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready and passing", func(t *testing.T) {
		s := New()
		s.AddReadinessCheck("postgres", time.Second, passing())
		s.SetReady(true)

		code, body := probe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("manual gate closed", func(t *testing.T) {
		s := New()
		s.AddReadinessCheck("postgres", time.Second, passing())

		code, body := probe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, body.Checks, "_readiness")
	})

	t.Run("one failing check reported", func(t *testing.T) {
		s := New()
		s.AddReadinessCheck("postgres", time.Second, passing())
		s.AddReadinessCheck("cache", time.Second, failing("cache miss"))
		s.SetReady(true)

		ctx := context.Background()
		for range failureThreshold {
			s.readiness[1].run(ctx)
		}

		code, body := probe(t, s.ReadyEndpoint)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, body.Checks, "cache")
		assert.NotContains(t, body.Checks, "postgres")
	})
}

func TestIsReady(t *testing.T) {
	s := New()
	s.AddReadinessCheck("postgres", time.Second, passing())

	assert.False(t, s.IsReady())

	s.SetReady(true)
	assert.True(t, s.IsReady())

	s.SetReady(false)
	assert.False(t, s.IsReady())
}

func TestCheckRecovery(t *testing.T) {
	down := true
	s := New()
	s.AddLivenessCheck("flaky", time.Second, func(_ context.Context) error {
		if down {
			return errors.New("down")
		}
		return nil
	})
	c := s.liveness[0]
	ctx := context.Background()

	for range failureThreshold {
		c.run(ctx)
	}
	healthy, err := c.status()
	assert.False(t, healthy)
	assert.EqualError(t, err, "down")

	down = false
	c.run(ctx)
	healthy, _ = c.status()
	assert.True(t, healthy, "one pass should recover with successThreshold = 1")
}

func TestStopIsIdempotent(t *testing.T) {
	s := New()
	s.AddLivenessCheck("goroutines", time.Second, passing())

	s.Start(context.Background(), 100*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	s.AddLivenessCheck("live", time.Second, failing("err"))
	s.AddReadinessCheck("ready", time.Second, passing())
	s.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx, 10*time.Millisecond)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.IsReady()
				probe(t, s.LiveEndpoint)
				probe(t, s.ReadyEndpoint)
			}
		}()
	}
	wg.Wait()
	s.Stop()
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}

func TestGCMaxPauseCheck(t *testing.T) {
	assert.NoError(t, GCMaxPauseCheck(time.Hour)(context.Background()))
}
