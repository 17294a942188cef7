package restraint

// External is one explicit user-supplied distance restraint between two
// named atoms of two residues (spec.md §3, "External restraint record";
// §6, "External restraint input"). Atom names follow PDB convention or
// the pseudo-atom "SCC"; Pos1 != Pos2 and Lowlim <= Uplim is enforced by
// the reader, not here.
type External struct {
	Pos1, Pos2   int
	Atom1, Atom2 string
	Lower, Upper float64
	Strictness   float64
}

func (e External) isDirect() bool {
	if e.Atom1 == "CA" && e.Atom2 == "CA" {
		return true
	}
	return e.Atom1 == "SCC" || e.Atom2 == "SCC"
}
