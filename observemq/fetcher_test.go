package observemq

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNatsFetcherConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := new(NatsFetcherConfig)
	cfg.setDefaults()

	assert.Equal(t, nats.DefaultURL, cfg.URL)
	assert.Equal(t, DefaultFetchTimeout, cfg.Timeout)
	require.NotNil(t, cfg.Marshaler)
	require.NotNil(t, cfg.Unmarshaler)
}

func TestNatsFetcherConfig_ExplicitValuesKept(t *testing.T) {
	t.Parallel()

	cfg := &NatsFetcherConfig{
		URL:     "nats://example:4222",
		Timeout: time.Second,
	}
	cfg.setDefaults()

	assert.Equal(t, "nats://example:4222", cfg.URL)
	assert.Equal(t, time.Second, cfg.Timeout)
}
