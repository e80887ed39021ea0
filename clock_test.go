package hawk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetClock(t *testing.T) {
	base := fixedClock(1000)
	c := OffsetClock{Base: base, Offset: 250}
	assert.Equal(t, int64(1250), c.NowMS())
}

func TestOffsetClockNilBaseFallsBackToSystem(t *testing.T) {
	c := OffsetClock{Offset: 0}
	assert.NotZero(t, c.NowMS())
}

func TestNowSec(t *testing.T) {
	assert.Equal(t, int64(1), nowSec(fixedClock(1999)))
	assert.NotZero(t, nowSec(nil))
}
