package crystvox

// Real is the scalar type of every coordinate and tensor entry.
type Real = float64

const (
	GridResX        = 32
	GridResY        = 32
	GridResZ        = 32
	Spread          = 0.5   // default gaussian variance
	DegenerateEps   = 1e-10 // sinG and sigma must stay above this
	NumShards       = 1024  // power of two, see shardLocks
	AutoSerialWork  = 1 << 16
	AutoChannelsMin = 4 // use channel-parallel build when at least this many channels carry atoms
	// minimum voxels per worker range for the voxel-parallel strategy
	minRangeVoxels = 512
)

// DefaultSpecies is the channel order used when a build does not name any species.
var DefaultSpecies = []string{"H", "O", "N", "C", "P", "Cu", "Co", "Ag", "Zn", "Cd", "Fe"}
