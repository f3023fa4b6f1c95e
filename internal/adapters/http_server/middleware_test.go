package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteIP(t *testing.T) {
	cases := []struct {
		name string
		hdr  map[string]string
		addr string
		want string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": " 10.0.0.1 , 10.0.0.2"}, "1.1.1.1:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "1.1.1.1:80", "10.0.0.9"},
		{"remote addr", nil, "192.168.1.5:5555", "192.168.1.5"},
		{"no port", nil, "weird", "weird"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.addr
			for k, v := range tc.hdr {
				r.Header.Set(k, v)
			}
			if got := remoteIP(r); got != tc.want {
				t.Fatalf("remoteIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStatusWriter_DefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}
	_, _ = sw.Write([]byte("x"))
	sw.WriteHeader(http.StatusTeapot)
	if sw.Status() != http.StatusOK {
		t.Fatalf("status = %d", sw.Status())
	}
}
