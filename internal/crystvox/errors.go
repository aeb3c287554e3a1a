package crystvox

import "errors"

// Every sentinel is prefixed with "crystvox: ". Callers add context with
// fmt.Errorf("...: %w", ErrX) and tests match with errors.Is.
var (
	// ErrInvalidLattice is returned for non-positive or non-finite cell edges or angles.
	ErrInvalidLattice = errors.New("crystvox: invalid lattice parameters")

	// ErrDegenerateLattice is returned when sin(gamma) or the volume factor sigma
	// is at or below the degeneracy epsilon, or an angle is outside (0, π).
	ErrDegenerateLattice = errors.New("crystvox: degenerate lattice")

	ErrNilLattice   = errors.New("crystvox: nil lattice")
	ErrNilStructure = errors.New("crystvox: nil structure")

	// ErrAtomIndex is returned by Structure.Atom for an index outside the structure.
	ErrAtomIndex = errors.New("crystvox: atom index out of range")

	// ErrUnknownSpecies is returned when an atom's species has no channel.
	ErrUnknownSpecies = errors.New("crystvox: unknown species")

	// ErrDuplicateSpecies is returned when the channel list names a label twice.
	ErrDuplicateSpecies = errors.New("crystvox: duplicate species in channel list")

	// ErrInvalidSpread is returned for a non-positive or non-finite gaussian variance.
	ErrInvalidSpread = errors.New("crystvox: spread must be > 0")

	// ErrInvalidDims is returned for non-positive grid dimensions.
	ErrInvalidDims = errors.New("crystvox: grid dimensions must be > 0")

	// ErrShapeMismatch is returned when a grid or tensor does not have the
	// shape the operation was configured for.
	ErrShapeMismatch = errors.New("crystvox: shape mismatch")

	// ErrParse is returned by the structure file reader.
	ErrParse = errors.New("crystvox: parse error")

	// ErrInvalidConfig is returned by LoadConfig for unusable job configs.
	ErrInvalidConfig = errors.New("crystvox: invalid config")
)
