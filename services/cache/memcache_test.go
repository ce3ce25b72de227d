package cache

import (
	"testing"
	"time"

	apperrors "sjsage522/jobharvester/pkg/errors"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("indeed_rate_limited_probe")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a rate limit block
	err = mc.Set("indeed_rate_limited_test", []byte("500"), 2*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("indeed_rate_limited_test")
	assert.NoError(t, err)
	assert.Equal(t, "500", string(value))

	err = mc.Delete("indeed_rate_limited_test")
	assert.NoError(t, err)

	_, err = mc.Get("indeed_rate_limited_test")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting twice is fine
	assert.NoError(t, mc.Delete("indeed_rate_limited_test"))
}

func TestMemcacheServiceUnreachable(t *testing.T) {
	mc := NewMemcacheService("127.0.0.1:1")

	_, err := mc.Get("indeed_rate_limited")
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeCache))
}
