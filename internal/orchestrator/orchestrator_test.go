package orchestrator

import (
	"testing"

	"github.com/aaszodi/dgrecon/internal/accessibility"
	"github.com/aaszodi/dgrecon/internal/config"
	"github.com/aaszodi/dgrecon/internal/diag"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/aaszodi/dgrecon/internal/restraint"
	"github.com/aaszodi/dgrecon/internal/secstruct"
	"github.com/aaszodi/dgrecon/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallChain() *polymer.Chain {
	identities := []byte("MKTAYIAKQRQIS")
	conservation := make([]float64, len(identities))
	for i := range conservation {
		conservation[i] = 0.5
	}
	return polymer.NewChain(identities, conservation)
}

func TestEngineRunProducesCoordinatesForEveryResidue(t *testing.T) {
	chain := smallChain()
	helix, err := segment.NewHelix(2, 7, segment.HelixAlpha)
	require.NoError(t, err)
	elems := []secstruct.Geometry{secstruct.NewHelixGeometry(helix, 0.8)}

	params := config.Default()
	params.Maxiter = 5
	require.NoError(t, params.Validate())

	engine := NewEngine(chain, elems, params, diag.NopLogger{})
	result := engine.Run(nil, nil)

	require.NotNil(t, result.Coords)
	assert.Equal(t, chain.N(), result.Coords.N())
	assert.GreaterOrEqual(t, result.Iterations, 1)
	assert.LessOrEqual(t, result.Iterations, params.Maxiter)
}

func TestEngineRunHonoursExternalAndAccessibility(t *testing.T) {
	chain := smallChain()
	params := config.Default()
	params.Maxiter = 4
	require.NoError(t, params.Validate())

	externals := []restraint.External{
		{Pos1: 1, Pos2: 13, Atom1: "CB", Atom2: "CB", Lower: 8.0, Upper: 14.0, Strictness: 0.6},
	}
	assignments := []AccessAssignment{
		{Residue: 3, Desired: accessibility.AssignBuried},
		{Residue: 10, Desired: accessibility.AssignSurface},
	}

	engine := NewEngine(chain, nil, params, diag.NopLogger{})
	result := engine.Run(externals, assignments)

	require.NotNil(t, result.Coords)
	assert.Equal(t, 0, result.Report.ExternalRejected)
	assert.Equal(t, 1, result.Report.ExternalMerged)
}

func TestEngineRunWithoutSpectralGradientStillCompletes(t *testing.T) {
	chain := smallChain()
	params := config.Default()
	params.Maxiter = 3
	require.NoError(t, params.Validate())

	engine := NewEngine(chain, nil, params, diag.NopLogger{}, WithSpectralGradient(false))
	result := engine.Run(nil, nil)

	require.NotNil(t, result.Coords)
	assert.Equal(t, chain.N(), result.Coords.N())
}

func TestEngineRunWithoutSpectralGradientClustersSecStrElements(t *testing.T) {
	chain := smallChain()
	helix, err := segment.NewHelix(2, 7, segment.HelixAlpha)
	require.NoError(t, err)
	elems := []secstruct.Geometry{secstruct.NewHelixGeometry(helix, 0.8)}

	params := config.Default()
	params.Maxiter = 3
	require.NoError(t, params.Validate())

	engine := NewEngine(chain, elems, params, diag.NopLogger{}, WithSpectralGradient(false))
	result := engine.Run(nil, nil)

	require.NotNil(t, result.Coords)
	assert.Equal(t, chain.N(), result.Coords.N())
}
