package crystvox

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Options configures a tensor build.
type Options struct {
	Species  []string // channel order; empty means DefaultSpecies
	Dims     Dims
	Spread   Real // gaussian variance, must be > 0
	Strategy Strategy
	Workers  int // <= 0 means one per CPU
}

// DefaultOptions returns the 11 default species, a 32³ grid and spread 0.5.
func DefaultOptions() Options {
	return Options{
		Species: append([]string(nil), DefaultSpecies...),
		Dims:    DefaultDims(),
		Spread:  Spread,
	}
}

func (o Options) species() []string {
	if len(o.Species) == 0 {
		return DefaultSpecies
	}
	return o.Species
}

// BuildTensor builds the density tensor of st with one channel per species.
func BuildTensor(st *Structure, species []string, d Dims, spread Real) (*Tensor, error) {
	return Build(st, Options{Species: species, Dims: d, Spread: spread})
}

// BuildDefault builds st with DefaultOptions: every default species, a 32³ grid and spread 0.5.
func BuildDefault(st *Structure) (*Tensor, error) {
	return Build(st, DefaultOptions())
}

// Build allocates a zeroed tensor and accumulates every atom of st into it.
func Build(st *Structure, o Options) (*Tensor, error) {
	t, _, err := BuildWithStats(st, o)
	return t, err
}

// BuildWithStats is Build that also reports what the build did.
func BuildWithStats(st *Structure, o Options) (*Tensor, *BuildStats, error) {
	if err := validateBuild(st, o); err != nil {
		return nil, nil, err
	}
	t, err := NewTensor(o.species(), o.Dims)
	if err != nil {
		return nil, nil, err
	}
	stats, err := accumulate(t, st, o)
	if err != nil {
		return nil, nil, err
	}
	return t, stats, nil
}

// BuildInto accumulates st onto an existing tensor. The tensor must have
// exactly the channels and dims named by o.
func BuildInto(t *Tensor, st *Structure, o Options) (*BuildStats, error) {
	if err := validateBuild(st, o); err != nil {
		return nil, err
	}
	if _, err := speciesIndex(o.species()); err != nil {
		return nil, err
	}
	want := &Tensor{Species: o.species(), Dims: o.Dims}
	if t == nil || !t.SameShape(want) || len(t.Buf) != len(want.Species)*o.Dims.Voxels() {
		return nil, fmt.Errorf("%w: tensor %v%v, want %v%v", ErrShapeMismatch, t.shapeOrNil(), t.speciesOrNil(), want.Shape(), want.Species)
	}
	if t.index == nil {
		t.index, _ = speciesIndex(t.Species)
	}
	return accumulate(t, st, o)
}

func validateBuild(st *Structure, o Options) error {
	if st == nil {
		return ErrNilStructure
	}
	if err := validateSpread(o.Spread); err != nil {
		return err
	}
	return o.Dims.validate()
}

// plan groups atom centers by channel, keeping structure order inside each channel.
type plan struct {
	centers [][]Point3 // [channel] -> centers
	order   []int      // channel of each atom, structure order
	used    int        // channels with at least one atom
}

func makePlan(t *Tensor, st *Structure) (*plan, error) {
	p := &plan{
		centers: make([][]Point3, len(t.Species)),
		order:   make([]int, len(st.atoms)),
	}
	for i, a := range st.atoms {
		c, ok := t.index[a.Species]
		if !ok {
			return nil, fmt.Errorf("%w: %q (atom %d) not in %v", ErrUnknownSpecies, a.Species, i, t.Species)
		}
		if len(p.centers[c]) == 0 {
			p.used++
		}
		p.centers[c] = append(p.centers[c], a.Position)
		p.order[i] = c
	}
	return p, nil
}

func accumulate(t *Tensor, st *Structure, o Options) (*BuildStats, error) {
	// every atom resolves before anything is written
	p, err := makePlan(t, st)
	if err != nil {
		return nil, err
	}
	s, err := NewSampler(st.lattice, t.Dims)
	if err != nil {
		return nil, err
	}

	workers := workerCount(o.Workers)
	stats := newBuildStats(len(st.atoms))
	stats.Workers = workers
	stats.Strategy = o.Strategy
	if stats.Strategy == StrategyAuto {
		stats.Strategy = estimateStrategy(len(st.atoms), p.used, t.Dims.Voxels(), workers)
	}
	stats.VoxelEvals = int64(len(st.atoms)) * int64(t.Dims.Voxels())
	for _, a := range st.atoms {
		stats.countSpecies(a.Species)
	}

	start := time.Now()
	switch stats.Strategy {
	case StrategySerial:
		accumulateSerial(t, s, st, p, o.Spread, stats)
	case StrategyVoxels:
		accumulateVoxels(t, s, p, o.Spread, workers, stats)
	case StrategyChannels:
		err = accumulateChannels(t, s, p, o.Spread, workers, stats)
	case StrategyAtomsReduce:
		accumulateAtomsReduce(t, s, st, p, o.Spread, workers, stats)
	case StrategyAtomsLocked:
		accumulateAtomsLocked(t, s, st, p, o.Spread, workers, stats)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %s", ErrInvalidConfig, stats.Strategy)
	}
	if err != nil {
		return nil, err
	}
	stats.Elapsed = time.Since(start)
	if Debug {
		stats.log()
	}
	return stats, nil
}

func accumulateSerial(t *Tensor, s *Sampler, st *Structure, p *plan, spread Real, stats *BuildStats) {
	n := t.Dims.Voxels()
	for i, a := range st.atoms {
		ch := t.Channel(p.order[i])
		s.accumulateRange(ch.Buf, 0, n, a.Position, spread)
		stats.atomDone()
	}
}

// accumulateVoxels gives each worker a contiguous voxel range of every channel.
// No two workers touch the same voxel, so no locks are needed and each voxel
// is summed in the same order as in a serial build.
func accumulateVoxels(t *Tensor, s *Sampler, p *plan, spread Real, workers int, stats *BuildStats) {
	n := t.Dims.Voxels()
	workers = imax(imin(workers, n/minRangeVoxels), 1)
	per := splitEven(n, workers)
	DebugLogOnce("Launching %d voxel workers (%d voxels each, +1 for first %d workers)", workers, n/workers, n%workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + per[w]
		go func(lo, hi int) {
			defer wg.Done()
			for c, centers := range p.centers {
				if len(centers) == 0 {
					continue
				}
				s.accumulateAtomsRange(t.Channel(c).Buf, lo, hi, centers, spread)
			}
		}(lo, hi)
		lo = hi
	}
	wg.Wait()
	for range p.order {
		stats.atomDone()
	}
}

// accumulateChannels builds populated channels concurrently; channels never share voxels.
func accumulateChannels(t *Tensor, s *Sampler, p *plan, spread Real, workers int, stats *BuildStats) error {
	n := t.Dims.Voxels()
	var g errgroup.Group
	g.SetLimit(workers)
	for c, centers := range p.centers {
		if len(centers) == 0 {
			continue
		}
		centers := centers
		buf := t.Channel(c).Buf
		g.Go(func() error {
			for _, center := range centers {
				s.accumulateRange(buf, 0, n, center, spread)
				stats.atomDone()
			}
			return nil
		})
	}
	return g.Wait()
}

// accumulateAtomsReduce splits atoms over workers, each with a private tensor
// buffer; the buffers are summed into t in worker order afterwards.
func accumulateAtomsReduce(t *Tensor, s *Sampler, st *Structure, p *plan, spread Real, workers int, stats *BuildStats) {
	atoms := len(st.atoms)
	if atoms == 0 {
		return
	}
	workers = imin(workers, atoms)
	per := splitEven(atoms, workers)
	n := t.Dims.Voxels()

	locals := make([][]Real, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	first := 0
	for w := 0; w < workers; w++ {
		locals[w] = make([]Real, len(t.Buf))
		go func(local []Real, first, count int) {
			defer wg.Done()
			for i := first; i < first+count; i++ {
				off := p.order[i] * n
				s.accumulateRange(local[off:off+n], 0, n, st.atoms[i].Position, spread)
				stats.atomDone()
			}
		}(locals[w], first, per[w])
		first += per[w]
	}
	wg.Wait()

	for _, local := range locals {
		floats.Add(t.Buf, local)
	}
}

// accumulateAtomsLocked splits atoms over workers writing straight into t.
// Each voxel add is guarded by its shard lock unless UseLocks is off.
func accumulateAtomsLocked(t *Tensor, s *Sampler, st *Structure, p *plan, spread Real, workers int, stats *BuildStats) {
	atoms := len(st.atoms)
	if atoms == 0 {
		return
	}
	workers = imin(workers, atoms)
	per := splitEven(atoms, workers)
	n := t.Dims.Voxels()
	v2 := spread * spread

	locks := &shardLocks{}
	var wg sync.WaitGroup
	wg.Add(workers)
	first := 0
	for w := 0; w < workers; w++ {
		go func(first, count int) {
			defer wg.Done()
			for i := first; i < first+count; i++ {
				center := st.atoms[i].Position
				base := p.order[i] * n
				for v := 0; v < n; v++ {
					add := gaussDensity(s.pos[v].Dist2(center), v2)
					if UseLocks {
						locks.lock(base + v)
						t.Buf[base+v] += add
						locks.unlock(base + v)
					} else {
						t.Buf[base+v] += add
					}
				}
				stats.atomDone()
			}
		}(first, per[w])
		first += per[w]
	}
	wg.Wait()
}
