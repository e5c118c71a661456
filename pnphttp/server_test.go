package pnphttp

import (
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/netkea/pnpcommon/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	var (
		assert  = assert.New(t)
		handler = http.NotFoundHandler()

		server = NewServer(ServerOptions{
			Logger:       logging.NewTestLogger(nil, t),
			Address:      ":9999",
			ReadTimeout:  17 * time.Second,
			WriteTimeout: 38 * time.Second,
			IdleTimeout:  61 * time.Second,
		}, handler)
	)

	assert.Equal(":9999", server.Addr)
	assert.Equal(17*time.Second, server.ReadTimeout)
	assert.Equal(38*time.Second, server.WriteTimeout)
	assert.Equal(61*time.Second, server.IdleTimeout)
	assert.NotNil(server.ErrorLog)
	assert.NotNil(server.Handler)
}

func TestNewStarterClosedListener(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	require.NoError(listener.Close())

	o := ServerOptions{
		Logger:   logging.NewTestLogger(nil, t),
		Listener: listener,
	}

	starter := NewStarter(o, NewServer(o, http.NotFoundHandler()))
	require.NotNil(starter)

	// serving a closed listener must surface an error, not hang or panic
	assert.Error(starter())
}

func TestNewServerLogger(t *testing.T) {
	assert := assert.New(t)
	assert.NotNil(NewServerLogger(nil))
	assert.NotNil(NewServerLogger(logging.NewTestLogger(nil, t)))
}
