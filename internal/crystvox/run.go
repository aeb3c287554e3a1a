package crystvox

// Run loads the job config at cfgPath and builds its tensor.
func Run(cfgPath string) (*Tensor, *BuildStats, error) {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	return RunJob(cfg)
}

// RunJob loads the job's structure and builds its tensor.
func RunJob(cfg *JobConfig) (*Tensor, *BuildStats, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, nil, err
	}
	st, err := LoadINP(cfg.Structure)
	if err != nil {
		return nil, nil, err
	}
	DebugLog("Structure %s: %d atoms, species %v", cfg.Structure, st.Len(), st.SpeciesPresent())

	t, stats, err := BuildWithStats(st, cfg.Options())
	if err != nil {
		return nil, nil, err
	}
	DebugLog("Tensor %v built in %s (%s, %d workers)", t.Shape(), stats.Elapsed, stats.Strategy, stats.Workers)
	return t, stats, nil
}
