package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/peer-recognition/pkg/logger"
)

// sensitiveFields are field names that should be filtered from logs
var sensitiveFields = []string{
	"password",
	"password_hash",
	"token",
	"access_token",
	"refresh_token",
	"authorization",
	"secret",
	"credential",
}

// LoggingMiddleware logs one line per request with status and latency.
// Request and response bodies are never logged; they can carry credentials.
func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.statusCode
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			logger.From(r.Context()).Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", filterSensitiveQuery(r.URL.RawQuery),
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", ww.written,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.written += int64(n)
	return n, err
}

func filterSensitiveQuery(query string) string {
	if query == "" {
		return ""
	}
	lower := strings.ToLower(query)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return "[FILTERED]"
		}
	}
	return query
}

// FilterSensitiveJSON masks sensitive fields of a JSON document; used when
// a payload has to be logged, e.g. in audit subscribers.
func FilterSensitiveJSON(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[FILTERED - not JSON]"
	}

	filtered := filterSensitiveValue(data)
	out, err := json.Marshal(filtered)
	if err != nil {
		return "[FILTERED]"
	}
	return string(out)
}

func filterSensitiveValue(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		filtered := make(map[string]interface{}, len(v))
		for key, value := range v {
			lowerKey := strings.ToLower(key)
			masked := false
			for _, field := range sensitiveFields {
				if strings.Contains(lowerKey, field) {
					filtered[key] = "[FILTERED]"
					masked = true
					break
				}
			}
			if !masked {
				filtered[key] = filterSensitiveValue(value)
			}
		}
		return filtered
	case []interface{}:
		filtered := make([]interface{}, len(v))
		for i, item := range v {
			filtered[i] = filterSensitiveValue(item)
		}
		return filtered
	default:
		return v
	}
}
