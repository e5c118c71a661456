package main

import (
	"testing"

	"github.com/netkea/pnpcommon/dispatch"
	"github.com/netkea/pnpcommon/logging"
	"github.com/netkea/pnpcommon/pnp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvelope(service pnp.ServiceType, kind pnp.Kind, correlator string, content string, success *bool) *pnp.Envelope {
	return &pnp.Envelope{
		Version: pnp.Version,
		UDI:     "PID:X,VID:1,SN:2",
		Body: pnp.Body{
			Service:    service,
			Kind:       kind,
			Correlator: correlator,
			Success:    success,
			Content:    []byte(content),
		},
	}
}

func TestNewRegistryDefaults(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	registry, err := newRegistry(logging.NewTestLogger(nil, t), BackoffConfig{Seconds: 45})
	require.NoError(err)

	// every work service result plus the work-info query must resolve
	assert.Equal(len(workServices)+1, registry.Len())

	for _, service := range workServices {
		handler, err := registry.Resolve(service, pnp.KindResponse)
		assert.NoError(err)
		assert.NotNil(handler)
	}
}

func TestNewRegistryBadBackoff(t *testing.T) {
	registry, err := newRegistry(logging.NewTestLogger(nil, t), BackoffConfig{})
	assert.Nil(t, registry)
	assert.Error(t, err)
}

func TestWorkInfoHandlerBacksOff(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	registry, err := newRegistry(logging.NewTestLogger(nil, t), BackoffConfig{Seconds: 45, Reason: "no work"})
	require.NoError(err)

	handler, err := registry.Resolve(pnp.ServiceWorkInfo, pnp.KindInfo)
	require.NoError(err)

	body, err := handler.HandleMessage(
		testEnvelope(pnp.ServiceWorkInfo, pnp.KindInfo, "w-1", "<workInfo/>", nil),
	)

	require.NoError(err)
	assert.Equal(pnp.ServiceBackoff, body.Service)
	assert.Contains(string(body.Content), "<seconds>45</seconds>")
	assert.Contains(string(body.Content), "<reason>no work</reason>")
}

func TestWorkInfoHandlerBye(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	registry, err := newRegistry(logging.NewTestLogger(nil, t), BackoffConfig{Seconds: 45})
	require.NoError(err)

	handler, err := registry.Resolve(pnp.ServiceWorkInfo, pnp.KindInfo)
	require.NoError(err)

	body, err := handler.HandleMessage(
		testEnvelope(pnp.ServiceWorkInfo, pnp.KindInfo, "w-2", "<workInfo><bye/></workInfo>", nil),
	)

	require.NoError(err)
	assert.Equal(pnp.ServiceWorkInfo, body.Service)
	assert.Equal(pnp.KindResponse, body.Kind)
	assert.Empty(body.Content)
}

func TestAcknowledgeHandler(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		success = true
	)

	handler := newAcknowledgeHandler(logging.NewTestLogger(nil, t))
	body, err := handler.HandleMessage(
		testEnvelope(pnp.ServiceCLIExec, pnp.KindResponse, "exec-1", "<execLog/>", &success),
	)

	require.NoError(err)
	assert.Equal(pnp.ServiceWorkInfo, body.Service)
	assert.Equal(pnp.KindInfo, body.Kind)
	assert.Contains(string(body.Content), "<bye>")
}

func TestEndToEndDispatch(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	registry, err := newRegistry(logging.NewTestLogger(nil, t), BackoffConfig{Seconds: 30})
	require.NoError(err)

	dispatcher := dispatch.NewDispatcher(dispatch.DispatcherOptions{
		Logger:   logging.NewTestLogger(nil, t),
		Registry: registry,
	})

	raw := dispatcher.Handle([]byte(
		`<pnp xmlns="urn:cisco:pnp" version="1.0" udi="PID:X,VID:1,SN:2">` +
			`<info xmlns="urn:cisco:pnp:work-info" correlator="w-3"><workInfo/></info></pnp>`,
	))

	response, err := pnp.Decode(raw)
	require.NoError(err)
	assert.Equal("w-3", response.Body.Correlator)
	assert.Equal(pnp.ServiceBackoff, response.Body.Service)
	assert.Equal("PID:X,VID:1,SN:2", response.UDI)
}
