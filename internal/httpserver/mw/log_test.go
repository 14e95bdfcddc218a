package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/session"
)

func TestLogLevelFollowsStatus(t *testing.T) {
	cases := []struct {
		path   string
		status int
		want   zapcore.Level
	}{
		{"/", http.StatusOK, zapcore.InfoLevel},
		{"/healthz", http.StatusOK, zapcore.DebugLevel},
		{"/edit", http.StatusBadRequest, zapcore.WarnLevel},
		{"/readyz", http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := Log(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tc.want, entries[0].Level)
			assert.Equal(t, "request served", entries[0].Message)
			assert.EqualValues(t, tc.status, entries[0].ContextMap()["status"])
		})
	}
}

func TestLogTagsOwnerAndBytes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Log(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.WithSession(req.Context(), session.Session{OwnerID: "owner-1"}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "owner-1", fields["owner_id"])
	assert.EqualValues(t, 5, fields["bytes"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}
