package aws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_StaticCredentials(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), CloudConfig{
		Region:          "sa-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "sa-east-1", cfg.Region)

	credentials, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", credentials.AccessKeyID)

	client := NewSqsClient(cfg, "http://localhost:4566")
	assert.Equal(t, "http://localhost:4566", *client.Options().BaseEndpoint)
}
