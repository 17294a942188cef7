// Package config models spec.md §6's flat key/value parameter set as a
// typed struct, the form a (out-of-scope) front end would populate
// after parsing the "KEY value" text file and hand to the orchestrator.
package config

import "fmt"

// Params mirrors every tunable spec.md §6 names. File paths (Alnfnm,
// Phobfnm, Restrfnm, ...) are intentionally absent: this module accepts
// already-parsed domain values, not paths, so the path-valued keys have
// no field here — the caller resolves them before populating Params.
type Params struct {
	Masterno int // target sequence index in the alignment, 0 = consensus

	Maxiter  int     // outer iterations, 1..500
	Tangiter int     // detangling iterations, 1..100
	Speciter int     // spectral-gradient iterations, 10..100
	Speceps  float64 // spectral-gradient relative stress change, 0.0001..0.1

	Evfract float64 // positive-eigenvalue fraction kept, 0..1
	Density float64 // residues per Å³, 0.001..0.012

	Maxdist  float64 // max homology restraint distance, Å, >= 0
	Minsepar int     // minimal |i-j| for homology restraints, >= 2

	Minscore  float64 // convergence score threshold
	Minchange float64 // convergence relative-change threshold

	Randseed int64 // PRNG seed
}

// Default returns spec.md §6's documented defaults.
func Default() Params {
	return Params{
		Masterno:  0,
		Maxiter:   40,
		Tangiter:  5,
		Speciter:  30,
		Speceps:   0.02,
		Evfract:   0.999,
		Density:   0.00636,
		Maxdist:   5.0,
		Minsepar:  2,
		Minscore:  1e-3,
		Minchange: 1e-4,
		Randseed:  1,
	}
}

// Validate checks every range spec.md §6 documents, returning the first
// violation found (nil if every field is within range).
func (p Params) Validate() error {
	if p.Masterno < 0 {
		return fmt.Errorf("config: Masterno must be >= 0, got %d", p.Masterno)
	}
	if p.Maxiter < 1 || p.Maxiter > 500 {
		return fmt.Errorf("config: Maxiter must be in [1,500], got %d", p.Maxiter)
	}
	if p.Tangiter < 1 || p.Tangiter > 100 {
		return fmt.Errorf("config: Tangiter must be in [1,100], got %d", p.Tangiter)
	}
	if p.Speciter < 10 || p.Speciter > 100 {
		return fmt.Errorf("config: Speciter must be in [10,100], got %d", p.Speciter)
	}
	if p.Speceps < 0.0001 || p.Speceps > 0.1 {
		return fmt.Errorf("config: Speceps must be in [0.0001,0.1], got %v", p.Speceps)
	}
	if p.Evfract < 0 || p.Evfract > 1 {
		return fmt.Errorf("config: Evfract must be in [0,1], got %v", p.Evfract)
	}
	if p.Density < 0.001 || p.Density > 0.012 {
		return fmt.Errorf("config: Density must be in [0.001,0.012], got %v", p.Density)
	}
	if p.Maxdist < 0 {
		return fmt.Errorf("config: Maxdist must be >= 0, got %v", p.Maxdist)
	}
	if p.Minsepar < 2 {
		return fmt.Errorf("config: Minsepar must be >= 2, got %d", p.Minsepar)
	}
	return nil
}
