package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/cardhub/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(r.RemoteAddr))
})

func TestTrustedRealIP(t *testing.T) {
	handler := TrustedRealIP([]string{"10.0.0.0/8", "127.0.0.1", "not-an-ip"})(okHandler)

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"trusted proxy with X-Real-IP", "10.1.2.3:5000", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"trusted single address with XFF", "127.0.0.1:5000", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, "198.51.100.1"},
		{"X-Real-IP wins over XFF", "10.0.0.9:1", map[string]string{"X-Real-IP": "203.0.113.8", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.8"},
		{"untrusted client spoofing", "203.0.113.50:4000", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.50:4000"},
		{"trusted proxy with garbage header", "10.0.0.1:80", map[string]string{"X-Real-IP": "garbage"}, "10.0.0.1:80"},
		{"trusted proxy without headers", "10.0.0.1:80", nil, "10.0.0.1:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got := ParseTrustedProxies([]string{" 10.1.2.3/8 ", "", "::1", "bogus"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got[0].String() != "10.0.0.0/8" {
		t.Errorf("prefix[0] = %s, want masked 10.0.0.0/8", got[0])
	}
	if got[1].String() != "::1/128" {
		t.Errorf("prefix[1] = %s, want ::1/128", got[1])
	}
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"alpha", "beta"}}
	handler := APIKeyAuth(cfg)(okHandler)

	tests := []struct {
		name     string
		header   string
		value    string
		want     int
		wantCode string
	}{
		{"valid X-API-Key", "X-API-Key", "beta", http.StatusOK, ""},
		{"valid bearer", "Authorization", "Bearer alpha", http.StatusOK, ""},
		{"missing", "", "", http.StatusUnauthorized, "AUTH_MISSING_KEY"},
		{"wrong key", "X-API-Key", "gamma", http.StatusForbidden, "AUTH_INVALID_KEY"},
		{"basic auth is not a key", "Authorization", "Basic YWxwaGE=", http.StatusUnauthorized, "AUTH_MISSING_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.wantCode != "" && !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("body = %s, want code %s", rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	handler := APIKeyAuth(&config.SecurityConfig{})(okHandler)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth disabled", rec.Code)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("gone"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/runs/x", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "bytes=4", "path=/api/runs/x"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
