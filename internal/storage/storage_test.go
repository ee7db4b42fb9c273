package storage

import (
	"testing"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportKey(t *testing.T) {
	assert.Equal(t, "runs/abc.json", RunReportKey("", "abc"))
	assert.Equal(t, "planning/runs/abc.json", RunReportKey("/planning/", "abc"))
	assert.Equal(t, "runs/", RunReportPrefix(""))
	assert.Equal(t, "planning/runs/", RunReportPrefix("planning"))
}

func TestNewMinioClient(t *testing.T) {
	valid := config.StorageConfig{
		Endpoint:  "https://s3.example.com",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "reports",
		UseSSL:    true,
	}

	c, err := NewMinioClient(valid)
	require.NoError(t, err)
	assert.Equal(t, "reports", c.bucket)
	assert.Equal(t, "s3.example.com", c.client.EndpointURL().Host)

	cases := map[string]func(*config.StorageConfig){
		"no endpoint": func(c *config.StorageConfig) { c.Endpoint = "" },
		"no creds":    func(c *config.StorageConfig) { c.SecretKey = "" },
		"no bucket":   func(c *config.StorageConfig) { c.Bucket = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			_, err := NewMinioClient(cfg)
			assert.Error(t, err)
		})
	}
}
