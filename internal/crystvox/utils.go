package crystvox

import (
	"math"
	"runtime"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// workerCount resolves a requested worker count; <= 0 means one per CPU.
func workerCount(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return imax(n, 1)
}

// splitEven distributes n items over w workers, remainder spread over the first ones.
func splitEven(n, w int) []int {
	per := make([]int, w)
	base, rem := n/w, n%w
	for i := 0; i < w; i++ {
		per[i] = base
		if i < rem {
			per[i]++
		}
	}
	return per
}
