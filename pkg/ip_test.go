package pkg

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUserIP(t *testing.T) {
	req, err := http.NewRequest("GET", "https://fitsphere.app/api/health", nil)
	require.NoError(t, err)

	req.RemoteAddr = "10.0.0.10:51234"
	ip, err := ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.10", ip)

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 70.41.3.18, 150.172.238.178")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)

	req.Header.Set("X-Real-Ip", "198.51.100.23")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.23", ip)
}
