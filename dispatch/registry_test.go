package dispatch

import (
	"testing"

	"github.com/netkea/pnpcommon/pnp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(marker string) Handler {
	return HandlerFunc(func(*pnp.Envelope) (pnp.Body, error) {
		return pnp.Body{
			Service: pnp.ServiceWorkInfo,
			Kind:    pnp.KindResponse,
			Content: []byte("<handled>" + marker + "</handled>"),
		}, nil
	})
}

func TestRegistryResolve(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		registry = NewRegistry()
	)

	registry.Register(pnp.ServiceWorkInfo, pnp.KindInfo, testHandler("a"))
	registry.Register(pnp.ServiceCLIExec, pnp.KindResponse, testHandler("b"))
	assert.Equal(2, registry.Len())

	handler, err := registry.Resolve(pnp.ServiceWorkInfo, pnp.KindInfo)
	require.NoError(err)
	require.NotNil(handler)

	body, err := handler.HandleMessage(nil)
	require.NoError(err)
	assert.Equal("<handled>a</handled>", string(body.Content))

	// exact match on both keys: same service, different kind
	handler, err = registry.Resolve(pnp.ServiceWorkInfo, pnp.KindResponse)
	assert.Nil(handler)
	assert.ErrorIs(err, ErrUnhandledService)
}

func TestRegistryResolveUnknownService(t *testing.T) {
	var (
		assert   = assert.New(t)
		registry = NewRegistry()
	)

	handler, err := registry.Resolve(pnp.ServiceUnknown, pnp.KindRequest)
	assert.Nil(handler)
	assert.ErrorIs(err, ErrUnknownService)
	assert.NotErrorIs(err, ErrUnhandledService)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		registry = NewRegistry()
	)

	registry.Register(pnp.ServiceConfigUpgrade, pnp.KindResponse, testHandler("first"))
	registry.Register(pnp.ServiceConfigUpgrade, pnp.KindResponse, testHandler("second"))
	assert.Equal(1, registry.Len())

	handler, err := registry.Resolve(pnp.ServiceConfigUpgrade, pnp.KindResponse)
	require.NoError(err)

	body, err := handler.HandleMessage(nil)
	require.NoError(err)
	assert.Equal("<handled>second</handled>", string(body.Content))
}

func TestRegistryRegisterInvalid(t *testing.T) {
	var (
		assert   = assert.New(t)
		registry = NewRegistry()
	)

	assert.Panics(func() {
		registry.Register(pnp.ServiceUnknown, pnp.KindRequest, testHandler("x"))
	})

	assert.Panics(func() {
		registry.Register(pnp.ServiceBackoff, pnp.KindRequest, nil)
	})

	assert.Zero(registry.Len())
}
