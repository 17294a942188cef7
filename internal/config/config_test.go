package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	assert.NoError(t, p.Validate())
}

func TestValidateCatchesOutOfRangeMaxiter(t *testing.T) {
	p := Default()
	p.Maxiter = 0
	assert.Error(t, p.Validate())

	p.Maxiter = 501
	assert.Error(t, p.Validate())
}

func TestValidateCatchesOutOfRangeEvfract(t *testing.T) {
	p := Default()
	p.Evfract = 1.5
	assert.Error(t, p.Validate())
}

func TestValidateCatchesMinseparBelowTwo(t *testing.T) {
	p := Default()
	p.Minsepar = 1
	assert.Error(t, p.Validate())
}

func TestValidateCatchesNegativeMaxdist(t *testing.T) {
	p := Default()
	p.Maxdist = -1
	assert.Error(t, p.Validate())
}
