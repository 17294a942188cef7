// Package orchestrator wires the restraint compiler, coordinate
// initialiser, spectral embedder, secondary-structure fitter, steric
// adjuster, spectral-gradient minimiser and accessibility engine into
// spec.md §4.3's outer iteration loop. Scheduling is single-threaded and
// cooperative throughout (spec.md §5): one call runs every pass to
// completion with no goroutines, channels, or suspension points.
package orchestrator

import (
	"math"

	"github.com/aaszodi/dgrecon/internal/accessibility"
	"github.com/aaszodi/dgrecon/internal/config"
	"github.com/aaszodi/dgrecon/internal/coordset"
	"github.com/aaszodi/dgrecon/internal/diag"
	"github.com/aaszodi/dgrecon/internal/distmat"
	"github.com/aaszodi/dgrecon/internal/embed"
	"github.com/aaszodi/dgrecon/internal/fakebeta"
	"github.com/aaszodi/dgrecon/internal/hydrophobic"
	"github.com/aaszodi/dgrecon/internal/numeric"
	"github.com/aaszodi/dgrecon/internal/polymer"
	"github.com/aaszodi/dgrecon/internal/restraint"
	"github.com/aaszodi/dgrecon/internal/score"
	"github.com/aaszodi/dgrecon/internal/secstruct"
	"github.com/aaszodi/dgrecon/internal/sidechain"
	"github.com/aaszodi/dgrecon/internal/specgrad"
	"github.com/aaszodi/dgrecon/internal/steric"
)

// accessSampleSize bounds the synthetic reference population the
// accessibility engine draws its percentile thresholds from.
const accessSampleSize = 2000

// convergenceWindow is how many consecutive sub-min_change iterations
// must elapse before the relative-change stopping predicate fires
// (spec.md §4.3, "detection window" — left unspecified, fixed here).
const convergenceWindow = 3

// forceDimIteration is the outer-iteration index (1-based) at and after
// which the embedding dimension is forced to 3 (spec.md §4.4's "schedule
// agreed with the orchestrator").
const forceDimIteration = 8

// AccessAssignment is a caller-supplied surface/buried target for one
// residue (spec.md §6, "Accessibility input").
type AccessAssignment struct {
	Residue int
	Desired accessibility.Assignment
}

// ObservedHydrophobicPair is one alignment-derived data point for
// refitting the hydrophobic distance predictor (spec.md §4.2's "if a
// hydrophobicity-conservation product vector is supplied").
type ObservedHydrophobicPair = hydrophobic.ObservedPoint

// Engine owns every long-lived component and the mutable state the
// outer loop threads through one call to Run (spec.md §5, "all matrices
// and coordinate arrays are owned by the orchestrator").
type Engine struct {
	chain *polymer.Chain
	elems []secstruct.Geometry

	params config.Params
	rcfg   restraint.Config
	scfg   specgrad.Config
	ecfg   embed.Config

	log   diag.Logger
	prng  *numeric.PRNG
	hydro *hydrophobic.Predictor

	useSpectralGradient bool

	homology     *sidechain.Alignment
	homologyCols []int
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithRestraintConfig overrides the default restraint-compiler tunables.
func WithRestraintConfig(rcfg restraint.Config) Option {
	return func(e *Engine) { e.rcfg = rcfg }
}

// WithSpectralGradient enables or disables the spectral-gradient stress
// minimiser at D_t == 3 (spec.md §4.3); euclidean_displace runs instead
// when disabled. Enabled by default.
func WithSpectralGradient(on bool) Option {
	return func(e *Engine) { e.useSpectralGradient = on }
}

// WithHydrophobicFit refits the hydrophobic distance predictor's
// (a,b,c) against caller-supplied observations before Run executes
// (spec.md §4.2, §4.9).
func WithHydrophobicFit(obs []ObservedHydrophobicPair, maxIter int) Option {
	return func(e *Engine) {
		if len(obs) == 0 {
			return
		}
		e.hydro.Fit(obs, maxIter)
	}
}

// WithHomology supplies the alignment §4.1's homology-derived restraints
// are built from. targetColumn maps each alignment column to the
// column's 1-based target residue position (0 for a column the target
// has no residue at); Run derives Cα-Cα restraints from it against
// params.Maxdist/Minsepar and merges them with the caller's explicit
// externals before compiling.
func WithHomology(align *sidechain.Alignment, targetColumn []int) Option {
	return func(e *Engine) {
		e.homology = align
		e.homologyCols = targetColumn
	}
}

// NewEngine builds an orchestrator over chain and its compiled
// secondary-structure elements, using params for every iteration-count
// and tolerance knob (spec.md §6).
func NewEngine(chain *polymer.Chain, elems []secstruct.Geometry, params config.Params, logger diag.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = diag.NopLogger{}
	}
	rcfg := restraint.DefaultConfig()
	rcfg.Density = params.Density

	e := &Engine{
		chain:               chain,
		elems:               elems,
		params:              params,
		rcfg:                rcfg,
		scfg:                specgrad.Config{Eps: params.Speceps, MaxIter: params.Speciter, MaxBacktrack: 10, InitialAlpha: 1.0},
		ecfg:                embed.Config{KeepFraction: params.Evfract},
		log:                 logger,
		prng:                numeric.NewPRNG(params.Randseed),
		hydro:               hydrophobic.NewPredictor(),
		useSpectralGradient: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one Run call.
type Result struct {
	Coords     *coordset.CoordSet
	Scores     score.Vector
	Iterations int
	Converged  bool
	Report     restraint.Report
}

// Run compiles restraints from externals plus any homology-derived
// restraints (spec.md §4.1, via WithHomology), draws the initial
// squared-distance matrix (spec.md §4.2), and performs spec.md §4.3's
// outer iteration loop. assignments may be nil; when non-empty, every
// iterate is passed through the accessibility engine (spec.md §4.10)
// after the steric/spectral-gradient displacement step.
func (e *Engine) Run(externals []restraint.External, assignments []AccessAssignment) Result {
	compiler := restraint.NewCompiler(e.rcfg, e.log)
	bounds, report := compiler.Compile(e.chain, e.elems, e.mergedExternals(externals))

	var accEngine *accessibility.Engine
	if len(assignments) > 0 {
		accEngine = accessibility.NewEngine(e.chain, e.prng, accessSampleSize)
	}
	desired := make(map[int]accessibility.Assignment, len(assignments))
	for _, a := range assignments {
		desired[a.Residue] = a.Desired
	}

	delta2 := e.initializeDistances(bounds)

	var x *coordset.CoordSet
	prevScore := math.Inf(1)
	noChangeStreak := 0
	var scores score.Vector
	converged := false
	iters := 0

	for t := 1; t <= e.params.Maxiter; t++ {
		iters = t
		forceDim := embed.DimensionSchedule(t, forceDimIteration)
		embedded, ok := embed.Embed(delta2, e.ecfg, forceDim)
		if !ok {
			e.log.Warnf("orchestrator: embedding failed at iteration %d, stopping early", t)
			break
		}
		x = embedded
		previous := x.Clone()

		for _, elem := range e.elems {
			elem.IdealFit(x, elem.Strictness())
		}
		if _, _, shouldReflect := secstruct.TallyHandedness(e.elems, x); shouldReflect {
			secstruct.ReflectThroughX(x)
		}

		fb := fakebeta.NewEngine(e.chain).Update(distmat.FromCoords(x))
		scores.Reset()
		violations := steric.Evaluate(e.chain, bounds, distmat.FromCoords(x), fb, nil, &scores)

		if x.Dim() == 3 && e.useSpectralGradient {
			targets := violationsToTargets(violations)
			result := specgrad.Iterate(x, targets, e.scfg)
			x = result.X
		} else if clusters := e.secStrClusters(x.N()); len(clusters) > 0 {
			steric.ApplyEuclideanClustered(x, violations, clusters)
		} else {
			steric.ApplyEuclidean(x, violations)
		}

		if accEngine != nil {
			e.applyAccessibility(accEngine, x, desired)
		}

		total := scores.Total()
		relChange := math.Abs(prevScore - total)
		if prevScore > 0 && !math.IsInf(prevScore, 1) {
			relChange /= prevScore
		}
		improved := prevScore-total >= e.params.Minchange || total < e.params.Minscore
		if !improved {
			x = previous
		}

		delta2 = distmat.FromCoords(x)

		if total < e.params.Minscore {
			converged = true
			prevScore = total
			break
		}
		if relChange < e.params.Minchange {
			noChangeStreak++
		} else {
			noChangeStreak = 0
		}
		prevScore = total
		if noChangeStreak >= convergenceWindow {
			converged = true
			break
		}
	}

	return Result{Coords: x, Scores: scores, Iterations: iters, Converged: converged, Report: report}
}

// mergedExternals appends any homology-derived restraints (spec.md
// §4.1's fourth input class) to the caller-supplied externals, leaving
// the caller's slice untouched.
func (e *Engine) mergedExternals(externals []restraint.External) []restraint.External {
	if e.homology == nil {
		return externals
	}
	derived := e.homology.HomologyRestraints(e.homologyCols, e.params.Maxdist, e.params.Minsepar)
	if len(derived) == 0 {
		return externals
	}
	out := make([]restraint.External, 0, len(externals)+len(derived))
	out = append(out, externals...)
	out = append(out, derived...)
	return out
}

// initializeDistances implements spec.md §4.2: a Gaussian draw per pair
// with mean 36*R_exp/35 and variance 1.2*R_exp^2, rejected to
// uniform-in-[L,U] when out of bounds, optionally blended with the
// hydrophobic distance estimate when neither residue is hard-restrained.
func (e *Engine) initializeDistances(bounds *restraint.Bounds) *distmat.DistMat {
	n := e.chain.N()
	rExp := restraint.ExpectedRadius(e.chain.R(), e.rcfg.Density)
	mean := 36.0 * rExp / 35.0
	stddev := math.Sqrt(1.2 * rExp * rExp)

	d := distmat.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			lo, up := bounds.Low(i, j), bounds.Up(i, j)
			draw := mean + stddev*e.prng.Gauss()
			if draw < lo || draw > up {
				draw = lo + e.prng.Float64()*(up-lo)
			}

			if !bounds.IsHard(i, j) {
				if est, ok := e.hydrophobicEstimate(i, j); ok {
					wij := e.conservationWeight(i, j)
					draw = (1-wij)*draw + wij*est
				}
			}
			d.Set(i, j, draw*draw)
		}
	}
	return d
}

func (e *Engine) hydrophobicEstimate(i, j int) (float64, bool) {
	ri, iok := e.chain.Residue(i)
	rj, jok := e.chain.Residue(j)
	if !iok || !jok {
		return 0, false
	}
	return e.hydro.Predict(ri.Hydrophobicity + rj.Hydrophobicity), true
}

func (e *Engine) conservationWeight(i, j int) float64 {
	ri, iok := e.chain.Residue(i)
	rj, jok := e.chain.Residue(j)
	if !iok || !jok {
		return 0
	}
	return ri.Conservation * rj.Conservation
}

// secStrClusters builds one rigid-body cluster per secondary-structure
// element (spec.md glossary "Piece"): when the spectral-gradient
// minimiser is unavailable (D_t != 3, or disabled), helix/sheet
// residues move together under the Euclidean-space correction rather
// than independently, the between-cluster mode spec.md §4.7 describes.
func (e *Engine) secStrClusters(n int) []*steric.Cluster {
	var clusters []*steric.Cluster
	for _, elem := range e.elems {
		residues := elem.Residues()
		if len(residues) < 3 {
			continue
		}
		cl := steric.NewCluster(n)
		for _, r := range residues {
			if r >= 0 && r < n {
				cl.Add(r)
			}
		}
		clusters = append(clusters, cl)
	}
	return clusters
}

func violationsToTargets(violations []steric.Violation) []specgrad.Target {
	targets := make([]specgrad.Target, len(violations))
	for k, v := range violations {
		targets[k] = specgrad.Target{I: v.I, J: v.J, D: v.DStar, Weight: v.Strictness}
	}
	return specgrad.NormalizeWeights(targets)
}

// hbondSource is implemented by secondary-structure geometries that
// track modelled hydrogen-bond partners (spec.md §4.6, §4.10).
type hbondSource interface {
	HBondPartner(i int) (int, bool)
}

func (e *Engine) hasModeledHBond(k int) bool {
	for _, elem := range e.elems {
		if hb, ok := elem.(hbondSource); ok {
			if _, found := hb.HBondPartner(k); found {
				return true
			}
		}
	}
	return false
}

// applyAccessibility runs spec.md §4.10 over every residue the caller
// flagged with a surface/buried assignment.
func (e *Engine) applyAccessibility(accEngine *accessibility.Engine, x *coordset.CoordSet, desired map[int]accessibility.Assignment) {
	centroid := accessibility.Centroid(e.chain, x)
	for k := 1; k <= e.chain.R(); k++ {
		want, flagged := desired[k]
		if !flagged {
			continue
		}
		res, ok := e.chain.Residue(k)
		if !ok {
			continue
		}
		th, ok := accEngine.Thresholds(res.Identity)
		if !ok {
			continue
		}
		shield, _ := accessibility.Shieldedness(e.chain, x, k)
		class := accessibility.Classify(shield, th)
		accessibility.Rescale(e.chain, x, centroid, k, class, want, e.hasModeledHBond(k))
	}
}
