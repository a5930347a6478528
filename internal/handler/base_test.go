package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientID(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{name: "absent", forwarded: "", want: "unknown"},
		{name: "blank", forwarded: "   ", want: "unknown"},
		{name: "single", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "chain", forwarded: " 203.0.113.7 , 10.0.0.1, 10.0.0.2", want: "203.0.113.7"},
		{name: "empty first entry", forwarded: ", 10.0.0.1", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/newsletter", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientID(req))
		})
	}
}
