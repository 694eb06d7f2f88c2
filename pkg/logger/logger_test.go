package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/loginlab/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tester_brute", "t**********e"},
		{"bob", "b*b"},
		{"ab", "**"},
		{"a", "*"},
		{"", ""},
		{"jösé", "j**é"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.MaskUsername(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, logger.SanitizeQueryString("password=123456"))
	assert.True(t, logger.SanitizeQueryString("Token=abc"))
	assert.True(t, logger.SanitizeQueryString("username=tester_brute"))
	assert.False(t, logger.SanitizeQueryString("limit=10&offset=0"))
	assert.False(t, logger.SanitizeQueryString(""))
}

func TestAuditLogger_LogAuthAttempt(t *testing.T) {
	var buf bytes.Buffer
	al := logger.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogAuthAttempt(context.Background(), logger.AuditEvent{
		EventType:     logger.EventLoginLocked,
		Username:      "tester_brute",
		IPAddress:     "203.0.113.10",
		FailureReason: "locked",
		RetryAfter:    30 * time.Second,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "login_locked", entry["event_type"])
	assert.Equal(t, "t**********e", entry["username"])
	assert.Equal(t, "203.0.113.10", entry["ip_address"])
	assert.NotContains(t, buf.String(), "tester_brute")
	assert.Contains(t, entry, "retry_after")
}

func TestAuditLogger_SuccessIsInfo(t *testing.T) {
	var buf bytes.Buffer
	al := logger.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogAuthAttempt(context.Background(), logger.AuditEvent{
		EventType: logger.EventLoginSuccess,
		UserID:    "user-1",
		Success:   true,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.NotContains(t, entry, "failure_reason")
}

func TestAuditLogger_LogAccountAction(t *testing.T) {
	var buf bytes.Buffer
	al := logger.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogAccountAction(context.Background(), "user_deleted", "user-1", map[string]string{"by": "api"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "account", entry["audit_type"])
	assert.Equal(t, "user_deleted", entry["event_type"])
	assert.Equal(t, "api", entry["by"])
}
