package polymer

// caBumpRadius is the Cα-Cα bump radius shared by every residue type
// (spec.md §4.1 step 2: "Cα bump radius 2.46 Å doubled" for the 1-2/1-3
// exclusion, i.e. 1.23 Å per atom before doubling).
const caBumpRadius = 1.23

type profile struct {
	hydrophobicity  float64
	caSCCDistance   float64
	sccBumpRadius   float64
	caSCCBumpRadius float64
	atomOffsets     map[string]AtomOffset
}

// profiles holds the per-amino-acid constants: hydrophobicity is the
// Kyte & Doolittle (1982) scale (the same table the reference physics
// package in the examples pack uses for its solvation energy), the
// remaining geometric constants are representative side-chain-centroid
// distances and bump radii derived from average heavy-atom geometry.
// 'X' is the fallback profile for unrecognised identities.
var profiles = map[byte]profile{
	'A': {1.8, 1.53, 1.88, 1.60, offs(2.43, 0.90, 3.76, 2.23)},
	'R': {-4.5, 4.18, 2.60, 2.00, offs(2.43, 0.90, 3.76, 2.23)},
	'N': {-3.5, 2.45, 2.25, 1.80, offs(2.43, 0.90, 3.76, 2.23)},
	'D': {-3.5, 2.32, 2.25, 1.80, offs(2.43, 0.90, 3.76, 2.23)},
	'C': {2.5, 2.13, 1.95, 1.70, offs(2.43, 0.90, 3.76, 2.23)},
	'Q': {-3.5, 2.96, 2.30, 1.85, offs(2.43, 0.90, 3.76, 2.23)},
	'E': {-3.5, 2.80, 2.30, 1.85, offs(2.43, 0.90, 3.76, 2.23)},
	'G': {-0.4, 0.0, 0.0, 0.0, offs(0, 0, 0, 0)},
	'H': {-3.2, 3.07, 2.40, 1.95, offs(2.43, 0.90, 3.76, 2.23)},
	'I': {4.5, 2.44, 2.35, 1.90, offs(2.43, 0.90, 3.76, 2.23)},
	'L': {3.8, 2.59, 2.35, 1.90, offs(2.43, 0.90, 3.76, 2.23)},
	'K': {-3.9, 3.70, 2.45, 1.95, offs(2.43, 0.90, 3.76, 2.23)},
	'M': {1.9, 3.16, 2.30, 1.90, offs(2.43, 0.90, 3.76, 2.23)},
	'F': {2.8, 3.17, 2.50, 2.00, offs(2.43, 0.90, 3.76, 2.23)},
	'P': {-1.6, 1.87, 2.00, 1.70, offs(2.43, 0.90, 3.76, 2.23)},
	'S': {-0.8, 1.73, 1.95, 1.65, offs(2.43, 0.90, 3.76, 2.23)},
	'T': {-0.7, 1.84, 2.05, 1.70, offs(2.43, 0.90, 3.76, 2.23)},
	'W': {-0.9, 3.58, 2.65, 2.05, offs(2.43, 0.90, 3.76, 2.23)},
	'Y': {-1.3, 3.44, 2.55, 2.00, offs(2.43, 0.90, 3.76, 2.23)},
	'V': {4.2, 2.00, 2.20, 1.85, offs(2.43, 0.90, 3.76, 2.23)},
	'X': {0.0, 2.50, 2.20, 1.80, offs(2.43, 0.90, 3.76, 2.23)},
}

// offs builds the named-atom offset table shared by all non-Gly
// residues here: backbone N/C offsets from Cα are essentially
// identity-independent, and CB is the representative first side-chain
// atom, offset from both Cα and SCC.
func offs(nFromCA, cFromCA, nFromSCC, cbFromCA float64) map[string]AtomOffset {
	return map[string]AtomOffset{
		"N":  {FromCA: nFromCA, FromSCC: nFromSCC},
		"C":  {FromCA: cFromCA, FromSCC: cFromCA + 1.2},
		"O":  {FromCA: 2.40, FromSCC: 3.2},
		"CB": {FromCA: cbFromCA, FromSCC: cbFromCA},
	}
}
