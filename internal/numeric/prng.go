package numeric

import "math"

// PRNG is a deterministic portable generator, a direct translation of
// the "ran1"-derived generator in original_source/lib/c/src/portrandom.c:
// a 32-entry shuffle table reseeded from a minimal-standard LCG, plus a
// Box-Muller Gaussian transform with a cached spare value. It is the only
// process-wide mutable state the engine would otherwise need; here it is
// an explicit value threaded through the initialiser instead, per the
// resource-model design (no global mutable state).
type PRNG struct {
	idum  int64
	iy    int64
	iv    [ntab]int64
	spare bool
	spval float64
}

const (
	ia   = 16807
	im   = 2147483647
	iq   = 127773
	ir   = 2836
	ntab = 32
	ndiv = 1 + (im-1)/ntab
	eps  = 2.2e-15
	rnmx = 1.0 - eps
	am   = 1.0 / im
)

// NewPRNG seeds the generator. A seed of 0 is remapped to 1, matching
// init_portrand's "do not init with 0" rule, and a negative seed is
// folded to its absolute value.
func NewPRNG(seed int64) *PRNG {
	p := &PRNG{}
	p.Seed(seed)
	return p
}

// Seed reinitialises the shuffle table and clears the cached Gaussian
// spare value, exactly as init_portrand does.
func (p *PRNG) Seed(seed int64) {
	idum := seed
	if idum == 0 {
		idum = 1
	}
	if idum < 0 {
		idum = -idum
	}

	for j := ntab + 7; j >= 0; j-- {
		k := idum / iq
		idum = ia*(idum-k*iq) - ir*k
		if idum < 0 {
			idum += im
		}
		if j < ntab {
			p.iv[j] = idum
		}
	}
	p.idum = idum
	p.iy = p.iv[0]
	p.spare = false
}

// next is the port_rand step: draws the next long from the shuffled LCG
// sequence and refills the table entry it consumed.
func (p *PRNG) next() int64 {
	k := p.idum / iq
	p.idum = ia*(p.idum-k*iq) - ir*k
	if p.idum < 0 {
		p.idum += im
	}
	j := p.iy / ndiv
	p.iy = p.iv[j]
	p.iv[j] = p.idum
	return p.iy
}

// Float64 returns a pseudo-random number in (0.0, 1.0), matching
// port_random's scaling and upper-bound clamp.
func (p *PRNG) Float64() float64 {
	v := am * float64(p.next())
	if v > rnmx {
		return rnmx
	}
	return v
}

// Gauss returns a zero-mean, unit-variance normal deviate via
// Box-Muller, caching the second sample the way portrandom_gauss does
// so only one rejection-sampled pair is drawn per two calls.
func (p *PRNG) Gauss() float64 {
	if p.spare {
		p.spare = false
		return p.spval
	}

	var v1, v2, r float64
	for {
		v1 = 2.0*p.Float64() - 1.0
		v2 = 2.0*p.Float64() - 1.0
		r = v1*v1 + v2*v2
		if r < 1.0 && r > eps {
			break
		}
	}
	fac := SafeSqrt(-2.0 * math.Log(r) / r)
	p.spval = v1 * fac
	p.spare = true
	return v2 * fac
}
