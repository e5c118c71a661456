package pnphttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/netkea/pnpcommon/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoDispatcher returns a canned document and records what it was given.
type echoDispatcher struct {
	received []byte
	document string
}

func (d *echoDispatcher) Handle(raw []byte) []byte {
	d.received = raw
	return []byte(d.document)
}

func TestHandler(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		dispatcher = &echoDispatcher{document: `<pnp xmlns="urn:cisco:pnp" version="1.0"/>`}
		handler    = NewHandler(HandlerOptions{
			Logger:     logging.NewTestLogger(nil, t),
			Dispatcher: dispatcher,
		})

		request  = httptest.NewRequest("POST", WorkRequestPath, strings.NewReader("<pnp/>"))
		response = httptest.NewRecorder()
	)

	handler.ServeHTTP(response, request)

	assert.Equal(http.StatusOK, response.Code)
	assert.Equal(ContentTypeXML, response.Header().Get("Content-Type"))
	assert.Equal(dispatcher.document, response.Body.String())
	require.NotNil(dispatcher.received)
	assert.Equal("<pnp/>", string(dispatcher.received))
}

func TestHandlerLimitsRequestBody(t *testing.T) {
	var (
		assert = assert.New(t)

		dispatcher = &echoDispatcher{document: "<pnp/>"}
		handler    = NewHandler(HandlerOptions{
			Dispatcher:     dispatcher,
			MaxRequestBody: 8,
		})

		request  = httptest.NewRequest("POST", WorkRequestPath, strings.NewReader(strings.Repeat("x", 100)))
		response = httptest.NewRecorder()
	)

	handler.ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Len(dispatcher.received, 8)
}

func TestNewHandlerRequiresDispatcher(t *testing.T) {
	assert.Panics(t, func() {
		NewHandler(HandlerOptions{})
	})
}

func TestNewHelloHandler(t *testing.T) {
	var (
		assert   = assert.New(t)
		request  = httptest.NewRequest("GET", HelloPath, nil)
		response = httptest.NewRecorder()
	)

	NewHelloHandler().ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Zero(response.Body.Len())
}
