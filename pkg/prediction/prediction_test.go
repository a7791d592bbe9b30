package prediction

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestParseLabel(t *testing.T) {
	assert.Equal(t, Real, ParseLabel("REAL"))
	assert.Equal(t, Real, ParseLabel(" real "))
	assert.Equal(t, Fake, ParseLabel("Fake"))
	assert.Equal(t, Unknown, ParseLabel("MISLEADING"))
	assert.Equal(t, Unknown, ParseLabel(""))
}

func TestFakeProbability(t *testing.T) {
	fake := &Result{Label: Fake, Score: 0.9}
	real := &Result{Label: Real, Score: 0.75}

	assert.Equal(t, 0.9, fake.FakeProbability())
	assert.Equal(t, 0.25, real.FakeProbability())
}
