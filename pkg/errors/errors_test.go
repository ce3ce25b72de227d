package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrawlerErrorMessage(t *testing.T) {
	err := NewNetwork("Indeed", "fetch failed", io.ErrUnexpectedEOF)
	assert.Equal(t, "[network] Indeed: fetch failed - unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.True(t, err.IsRetryable())

	rl := NewRateLimit("Indeed", "60")
	assert.Equal(t, "[rate_limit] Indeed: rate limited; retry after 60", rl.Error())
	assert.False(t, rl.IsRetryable())
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("page 3: %w", NewRateLimit("Indeed", ""))
	assert.True(t, IsType(wrapped, ErrorTypeRateLimit))
	assert.False(t, IsType(wrapped, ErrorTypeNetwork))
	assert.False(t, IsType(io.EOF, ErrorTypeRateLimit))
	assert.False(t, IsType(nil, ErrorTypeRateLimit))
}
