package crystvox

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Tensor is a multi-channel density grid, one channel per species.
// The arena is flat: ((c*D0 + i)*D1 + j)*D2 + k.
type Tensor struct {
	Species []string
	Dims    Dims
	Buf     []Real

	index map[string]int
}

// NewTensor allocates a zeroed tensor with one channel per species label.
func NewTensor(species []string, d Dims) (*Tensor, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	index, err := speciesIndex(species)
	if err != nil {
		return nil, err
	}
	t := &Tensor{
		Species: append([]string(nil), species...),
		Dims:    d,
		Buf:     make([]Real, len(species)*d.Voxels()),
		index:   index,
	}
	DebugLog("Allocated tensor channels=%d dims=%s (%d values)", len(species), d, len(t.Buf))
	return t, nil
}

func speciesIndex(species []string) (map[string]int, error) {
	index := make(map[string]int, len(species))
	for i, s := range species {
		if _, ok := index[s]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSpecies, s)
		}
		index[s] = i
	}
	return index, nil
}

// Shape returns (channels, D0, D1, D2).
func (t *Tensor) Shape() [4]int {
	return [4]int{len(t.Species), t.Dims.D0, t.Dims.D1, t.Dims.D2}
}

// Channels returns the number of species channels.
func (t *Tensor) Channels() int { return len(t.Species) }

// ChannelIndex reports the channel of a species label.
func (t *Tensor) ChannelIndex(species string) (int, bool) {
	c, ok := t.index[species]
	return c, ok
}

// Channel returns a view of channel c; writes through the view land in the tensor.
func (t *Tensor) Channel(c int) Grid {
	n := t.Dims.Voxels()
	return gridOver(t.Dims, t.Buf[c*n:(c+1)*n:(c+1)*n])
}

// At returns entry [c][i][j][k]. It panics if the entry is outside the tensor.
func (t *Tensor) At(c, i, j, k int) Real {
	if c < 0 || c >= len(t.Species) {
		panic(fmt.Sprintf("crystvox: channel %d out of range [0,%d)", c, len(t.Species)))
	}
	t.Dims.mustContain(i, j, k)
	return t.Buf[((c*t.Dims.D0+i)*t.Dims.D1+j)*t.Dims.D2+k]
}

// SameShape reports whether u has the same channels (in order) and dims as t.
func (t *Tensor) SameShape(u *Tensor) bool {
	if u == nil || t.Dims != u.Dims || len(t.Species) != len(u.Species) {
		return false
	}
	for i := range t.Species {
		if t.Species[i] != u.Species[i] {
			return false
		}
	}
	return true
}

// Add accumulates u into t channel-wise.
func (t *Tensor) Add(u *Tensor) error {
	if !t.SameShape(u) {
		return fmt.Errorf("%w: cannot add tensor %v%v to %v%v", ErrShapeMismatch, u.shapeOrNil(), u.speciesOrNil(), t.Shape(), t.Species)
	}
	floats.Add(t.Buf, u.Buf)
	return nil
}

func (t *Tensor) shapeOrNil() interface{} {
	if t == nil {
		return nil
	}
	return t.Shape()
}

func (t *Tensor) speciesOrNil() []string {
	if t == nil {
		return nil
	}
	return t.Species
}

// ChannelSummary describes one channel of a finished tensor.
type ChannelSummary struct {
	Species string
	Sum     Real
	Max     Real
	Min     Real
	ArgMax  [3]int // voxel (i, j, k) holding Max
}

// Summary returns per-channel sum, extrema and the peak voxel.
func (t *Tensor) Summary() []ChannelSummary {
	out := make([]ChannelSummary, 0, len(t.Species))
	for c, s := range t.Species {
		g := t.Channel(c)
		cs := ChannelSummary{Species: s}
		if len(g.Buf) > 0 {
			cs.Sum = floats.Sum(g.Buf)
			cs.Min = floats.Min(g.Buf)
			n := floats.MaxIdx(g.Buf)
			cs.Max = g.Buf[n]
			i, j, k := g.ijk(n)
			cs.ArgMax = [3]int{i, j, k}
		}
		out = append(out, cs)
	}
	return out
}
