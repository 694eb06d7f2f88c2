package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/loginlab/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		trusted    []string
		want       string
	}{
		{
			name:       "direct connection ignores spoofed headers",
			remoteAddr: "203.0.113.10:54321",
			xff:        "1.2.3.4, 5.6.7.8",
			xRealIP:    "192.168.1.1",
			trusted:    []string{"10.0.0.0/8", "127.0.0.1/32"},
			want:       "203.0.113.10",
		},
		{
			name:       "trusted proxy uses rightmost untrusted address",
			remoteAddr: "10.0.0.5:54321",
			xff:        "203.0.113.42, 203.0.113.43, 10.0.0.6",
			trusted:    []string{"10.0.0.0/8"},
			want:       "203.0.113.43",
		},
		{
			name:       "client-written entries cannot change the result",
			remoteAddr: "10.0.0.5:54321",
			xff:        "1.2.3.4, 198.51.100.7",
			trusted:    []string{"10.0.0.0/8"},
			want:       "198.51.100.7",
		},
		{
			name:       "invalid entry stops the walk",
			remoteAddr: "10.0.0.5:54321",
			xff:        "203.0.113.42, garbage, 10.0.0.6",
			trusted:    []string{"10.0.0.0/8"},
			want:       "10.0.0.6",
		},
		{
			name:       "all forwarded hops trusted",
			remoteAddr: "10.0.0.5:54321",
			xff:        "10.0.0.7, 10.0.0.6",
			trusted:    []string{"10.0.0.0/8"},
			want:       "10.0.0.7",
		},
		{
			name:       "trusted proxy falls back to X-Real-IP",
			remoteAddr: "10.0.0.5:54321",
			xRealIP:    "203.0.113.99",
			trusted:    []string{"10.0.0.0/8"},
			want:       "203.0.113.99",
		},
		{
			name:       "ipv6 trusted proxy",
			remoteAddr: "[::1]:54321",
			xff:        "2001:db8::1",
			trusted:    []string{"::1/128"},
			want:       "2001:db8::1",
		},
		{
			name:       "no trusted proxies",
			remoteAddr: "203.0.113.10:54321",
			xff:        "1.2.3.4",
			trusted:    nil,
			want:       "203.0.113.10",
		},
		{
			name:       "invalid cidr ranges fail closed",
			remoteAddr: "203.0.113.10:54321",
			xff:        "1.2.3.4",
			trusted:    []string{"invalid-cidr-range", "also-invalid"},
			want:       "203.0.113.10",
		},
		{
			name:       "localhost claim from untrusted peer",
			remoteAddr: "203.0.113.10:54321",
			xff:        "127.0.0.1, 203.0.113.10",
			trusted:    []string{"10.0.0.0/8"},
			want:       "203.0.113.10",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.10",
			want:       "203.0.113.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			got := pkghttp.ExtractClientIP(req, pkghttp.NewIPConfig(tt.trusted))

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractClientIP_NilConfig(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "203.0.113.10:54321"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	assert.Equal(t, "203.0.113.10", pkghttp.ExtractClientIP(req, nil))
}
