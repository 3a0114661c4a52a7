package conversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToZc_DividesByRate(t *testing.T) {
	assert.InDelta(t, 10.0, ToZc(900, 90), 1e-9)
	assert.InDelta(t, 2.0, ToZc(180, 90), 1e-9)
}

func TestToPkr_MultipliesByRate(t *testing.T) {
	assert.InDelta(t, 900.0, ToPkr(10, 90), 1e-9)
}

func TestRoundTrip_PkrToZcAndBack(t *testing.T) {
	for _, rate := range []float64{80, 90, 92.5, 110.75} {
		pkr := 1234.56
		assert.InDelta(t, pkr, ToPkr(ToZc(pkr, rate), rate), 1e-9, "rate %v", rate)
	}
}

func TestRoundTrip_ZcToPkrAndBack(t *testing.T) {
	for _, rate := range []float64{80, 90, 92.5} {
		zc := 250.25
		assert.InDelta(t, zc, ToZc(ToPkr(zc, rate), rate), 1e-9, "rate %v", rate)
	}
}
