package crystvox

import "fmt"

// Record is one raw atom as produced by a structure loader.
type Record struct {
	Species    string
	Fa, Fb, Fc Real
}

// Atom is a species label plus its Cartesian position, derived once from
// the fractional coordinates it was loaded with.
type Atom struct {
	Species  string
	Position Point3
	Frac     Vec3
}

// Structure owns a lattice and its atoms in load order.
type Structure struct {
	lattice *Lattice
	atoms   []Atom
}

// BuildStructure converts every record to Cartesian space and keeps the input order.
// Duplicate atoms are kept; species labels are not interpreted.
func BuildStructure(lat *Lattice, records []Record) (*Structure, error) {
	if lat == nil {
		return nil, ErrNilLattice
	}
	s := &Structure{
		lattice: lat,
		atoms:   make([]Atom, 0, len(records)),
	}
	for _, r := range records {
		s.atoms = append(s.atoms, Atom{
			Species:  r.Species,
			Position: lat.FractionalToCartesian(r.Fa, r.Fb, r.Fc),
			Frac:     Vec3{r.Fa, r.Fb, r.Fc},
		})
	}
	DebugLog("Built structure with %d atoms", len(s.atoms))
	return s, nil
}

func (s *Structure) Lattice() *Lattice { return s.lattice }

func (s *Structure) Len() int { return len(s.atoms) }

// Atoms returns a copy of the atom sequence.
func (s *Structure) Atoms() []Atom {
	out := make([]Atom, len(s.atoms))
	copy(out, s.atoms)
	return out
}

// Atom returns the i-th atom.
func (s *Structure) Atom(i int) (Atom, error) {
	if i < 0 || i >= len(s.atoms) {
		return Atom{}, fmt.Errorf("%w: %d not in [0,%d)", ErrAtomIndex, i, len(s.atoms))
	}
	return s.atoms[i], nil
}

// Params returns the lattice parameters, see Lattice.Params.
func (s *Structure) Params() map[string]Real { return s.lattice.Params() }

// SpeciesPresent lists distinct species labels in first-seen order.
func (s *Structure) SpeciesPresent() []string {
	seen := make(map[string]struct{}, len(s.atoms))
	out := []string{}
	for _, a := range s.atoms {
		if _, ok := seen[a.Species]; ok {
			continue
		}
		seen[a.Species] = struct{}{}
		out = append(out, a.Species)
	}
	return out
}
