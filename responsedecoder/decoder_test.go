package responsedecoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFallsBackToRaw(t *testing.T) {
	garbage := []byte{0x00, 0x01, 0x02}
	r := Parse(garbage)
	assert.Nil(t, r.ASRep)
	assert.Nil(t, r.TGSRep)
	assert.Nil(t, r.KRBErr)
	assert.Equal(t, garbage, r.Raw)
}

func TestAsErrorNilWhenNotKrbError(t *testing.T) {
	r := Reply{Raw: []byte{1}}
	assert.Nil(t, r.AsError())
}
