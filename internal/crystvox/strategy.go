package crystvox

import (
	"fmt"
	"strings"
)

// Strategy selects how a build spreads work over goroutines.
type Strategy uint8

const (
	StrategyAuto        Strategy = iota // pick from the estimated work
	StrategySerial                      // one goroutine, structure order
	StrategyVoxels                      // contiguous voxel ranges per worker, all atoms per range
	StrategyChannels                    // one channel per goroutine
	StrategyAtomsReduce                 // atoms split over workers, private buffers summed at the end
	StrategyAtomsLocked                 // atoms split over workers, shared buffer behind shard locks
)

var strategyNames = map[Strategy]string{
	StrategyAuto:        "auto",
	StrategySerial:      "serial",
	StrategyVoxels:      "voxels",
	StrategyChannels:    "channels",
	StrategyAtomsReduce: "atoms-reduce",
	StrategyAtomsLocked: "atoms-locked",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// ParseStrategy maps a name (case-insensitive, "" is auto) to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrategyAuto, nil
	}
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return StrategyAuto, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
}

// MarshalText lets strategies appear by name in JSON/YAML configs.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// estimateStrategy resolves StrategyAuto from the size of the build.
// Small builds stay serial; builds with many populated channels split by
// channel; everything else splits the voxel space.
func estimateStrategy(atoms, channelsUsed, voxels, workers int) Strategy {
	work := atoms * voxels
	switch {
	case workers <= 1 || work < AutoSerialWork:
		return StrategySerial
	case channelsUsed >= AutoChannelsMin && channelsUsed >= workers:
		return StrategyChannels
	case voxels >= 2*minRangeVoxels:
		return StrategyVoxels
	default:
		return StrategyAtomsReduce
	}
}
