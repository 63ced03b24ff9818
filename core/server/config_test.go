package server_test

import (
	"testing"

	"scale-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_WebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		want      string
	}{
		{"Plain", "https://sync.example.com", "https://sync.example.com/webhook/withings"},
		{"TrailingSlash", "https://sync.example.com/", "https://sync.example.com/webhook/withings"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{PublicURL: tt.publicURL}
			assert.Equal(t, tt.want, c.WebhookURL())
		})
	}
}
