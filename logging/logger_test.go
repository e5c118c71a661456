package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger(t *testing.T) {
	assert := assert.New(t)
	assert.NotNil(DefaultLogger())
	assert.NoError(DefaultLogger().Log(MessageKey(), "should go nowhere"))
}

func TestNew(t *testing.T) {
	for _, o := range []*Options{nil, {}, {JSON: true, Level: "DEBUG"}, {Level: "INFO"}} {
		assert.NotNil(t, New(o))
	}
}

func TestNewFilter(t *testing.T) {
	var (
		assert = assert.New(t)
		output bytes.Buffer
		logger = NewFilter(log.NewLogfmtLogger(&output), &Options{Level: "WARN"})
	)

	assert.NoError(Debug(logger).Log(MessageKey(), "filtered"))
	assert.Zero(output.Len())

	assert.NoError(Warn(logger).Log(MessageKey(), "emitted"))
	assert.Contains(output.String(), "emitted")
}

func TestLevelHelpers(t *testing.T) {
	var (
		assert = assert.New(t)
		output bytes.Buffer
		logger = NewFilter(log.NewLogfmtLogger(&output), &Options{Level: "DEBUG"})

		helpers = map[string]func(log.Logger, ...interface{}) log.Logger{
			"error": Error,
			"info":  Info,
			"warn":  Warn,
			"debug": Debug,
		}
	)

	for expected, helper := range helpers {
		output.Reset()
		assert.NoError(helper(logger, ServiceKey(), "backoff").Log(MessageKey(), "message"))

		assert.Contains(output.String(), "level="+expected)
		assert.Contains(output.String(), "service=backoff")
	}
}

func TestNewTestLogger(t *testing.T) {
	assert := assert.New(t)

	logger := NewTestLogger(nil, t)
	assert.NotNil(logger)
	assert.NoError(logger.Log(MessageKey(), "delegated to testing.T"))

	logger = NewTestLogger(&Options{Level: "ERROR"}, t)
	assert.NotNil(logger)
}

func TestNewTestWriter(t *testing.T) {
	var (
		assert = assert.New(t)
		writer = NewTestWriter(t)
	)

	count, err := writer.Write([]byte(strings.Repeat("x", 10)))
	assert.Equal(10, count)
	assert.NoError(err)
}
