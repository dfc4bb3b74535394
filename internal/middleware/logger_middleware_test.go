package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadership-chatbot-server/internal/observability"
	"leadership-chatbot-server/pkg/jwt"
)

func lastLogEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, lines[len(lines)-1])
	}
	return entry
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLoggerTo(&buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	chain := LoggerMiddleware(logger)(AuthMiddleware(testSecret, jwt.TokenTypeAccess)(handler))

	token, err := jwt.GenerateToken(42, time.Hour, testSecret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogEntry(t, &buf)

	// The id the inner middleware resolved must survive into the log line.
	if userID, ok := entry["user_id"].(float64); !ok || int64(userID) != 42 {
		t.Errorf("user_id = %v, want 42", entry["user_id"])
	}
	if status, ok := entry["status"].(float64); !ok || int(status) != http.StatusTeapot {
		t.Errorf("status = %v, want %d", entry["status"], http.StatusTeapot)
	}
	if entry["method"] != http.MethodGet || entry["path"] != "/me" {
		t.Errorf("method/path = %v/%v", entry["method"], entry["path"])
	}
	if id, ok := entry["request_id"].(string); !ok || id == "" {
		t.Error("request_id missing from log line")
	}

	// An unauthenticated request logs no user_id at all.
	buf.Reset()
	chain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))

	entry = lastLogEntry(t, &buf)
	if _, present := entry["user_id"]; present {
		t.Errorf("user_id = %v on unauthenticated request, want absent", entry["user_id"])
	}
	if status, ok := entry["status"].(float64); !ok || int(status) != http.StatusUnauthorized {
		t.Errorf("status = %v, want 401", entry["status"])
	}
}
