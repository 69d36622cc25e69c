package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/cache"
	"github.com/lildude/fitpal/internal/fitness"
	"github.com/lildude/fitpal/internal/storage"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHandler struct {
	panic  bool
	called bool
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.called = true
	if h.panic {
		panic("YOLO")
	}
	w.WriteHeader(http.StatusTeapot)
}

func TestRequireProfile(t *testing.T) {
	ctx := context.Background()
	r := miniredis.RunT(t)
	c, err := cache.NewRedisCache(ctx, fmt.Sprintf("redis://%s", r.Addr()), cache.DefaultPrefix)
	require.NoError(t, err)
	log, _ := logtest.NewNullLogger()
	st := app.Load(ctx, storage.NewAdapter(c, log), log)

	next := &testHandler{}
	h := RequireProfile(st)(next)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/calories", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, next.called)

	require.NoError(t, st.SaveProfile(ctx, fitness.UserProfile{Age: 30, Gender: fitness.Male, Weight: 80, Height: 180, ActivityLevel: fitness.Sedentary}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/calories", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.True(t, next.called)
}

func TestPanicRecovery(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	next := &testHandler{panic: true}
	rr := httptest.NewRecorder()
	PanicRecovery(log)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.True(t, next.called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestLogRequest(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	rr := httptest.NewRecorder()
	LogRequest(log)(&testHandler{}).ServeHTTP(rr, httptest.NewRequest("POST", "/meals", nil))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, http.StatusTeapot, hook.LastEntry().Data["status"])
	assert.Equal(t, "/meals", hook.LastEntry().Data["path"])
}
