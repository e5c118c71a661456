package pnp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCorrelator(t *testing.T) {
	var (
		assert = assert.New(t)

		envelope = Envelope{
			Version: Version,
			Body: Body{
				Service:    ServiceWorkInfo,
				Kind:       KindInfo,
				Correlator: "CiscoPnP-1.0-40830",
			},
		}
	)

	correlator, err := ExtractCorrelator(&envelope)
	assert.NoError(err)
	assert.Equal("CiscoPnP-1.0-40830", correlator)
}

func TestExtractCorrelatorMissing(t *testing.T) {
	var (
		assert = assert.New(t)

		envelope = Envelope{
			Version: Version,
			Body: Body{
				Service: ServiceWorkInfo,
				Kind:    KindInfo,
			},
		}
	)

	correlator, err := ExtractCorrelator(&envelope)
	assert.Empty(correlator)
	assert.ErrorIs(err, ErrMissingCorrelator)
}

func TestAttachCorrelator(t *testing.T) {
	var (
		assert = assert.New(t)
		body   = Body{Service: ServiceBackoff, Kind: KindRequest}
	)

	attached := AttachCorrelator("abc-123", body)
	assert.Equal("abc-123", attached.Correlator)

	// the input body is unchanged
	assert.Empty(body.Correlator)

	replaced := AttachCorrelator("def-456", attached)
	assert.Equal("def-456", replaced.Correlator)
}
