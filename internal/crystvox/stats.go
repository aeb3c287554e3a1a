package crystvox

import (
	"sync"
	"sync/atomic"
	"time"
)

// BuildStats records what a build did.
type BuildStats struct {
	Strategy   Strategy
	Workers    int
	Atoms      int
	VoxelEvals int64 // atoms * voxels per channel
	Elapsed    time.Duration

	mu       sync.Mutex
	perChan  map[string]int
	done     int64 // atoms finished, updated by workers
	nextTick int64
}

func newBuildStats(atoms int) *BuildStats {
	tick := int64(1)
	if atoms >= 10 {
		tick = int64(atoms / 10) // ~10%
	}
	return &BuildStats{
		Atoms:    atoms,
		perChan:  make(map[string]int),
		nextTick: tick,
	}
}

func (b *BuildStats) countSpecies(species string) {
	b.mu.Lock()
	b.perChan[species]++
	b.mu.Unlock()
}

// atomDone is called by workers once per finished atom.
func (b *BuildStats) atomDone() {
	done := atomic.AddInt64(&b.done, 1)
	if done%b.nextTick == 0 {
		DebugLog("[PROGRESS] %.2f%%", Real(done)*100/Real(b.Atoms))
	}
}

// AtomsDone returns how many atoms have been accumulated.
func (b *BuildStats) AtomsDone() int64 { return atomic.LoadInt64(&b.done) }

// PerSpecies returns atom counts per species channel.
func (b *BuildStats) PerSpecies() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]int, len(b.perChan))
	for k, v := range b.perChan {
		out[k] = v
	}
	return out
}

func (b *BuildStats) log() {
	DebugLog("Build: strategy=%s workers=%d atoms=%d voxel evaluations=%d time=%s", b.Strategy, b.Workers, b.Atoms, b.VoxelEvals, b.Elapsed)
	for k, v := range b.PerSpecies() {
		DebugLog("Species %s: %d atoms", k, v)
	}
}
