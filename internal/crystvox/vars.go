package crystvox

var (
	Debug    = false // set to true for verbose debug output
	UseLocks = true  // set to false to disable shard locks in StrategyAtomsLocked (tests only, races)
)
