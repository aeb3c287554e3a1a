package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lukaszgryglicki/crystvox/internal/crystvox"
)

func newBuildCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [structure.inp]",
		Short: "Build the density tensor of a structure and print a per-channel summary",
		Long: `Builds the density tensor of a structure file. Settings come from
--config (JSON or YAML), then from flags and CRYSTVOX_* environment
variables, which override the config file.

Example:
  crystvox build AHOKOX_clean.inp --species H,O,C,Cu --dims 32,32,32 --spread 0.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(v, args)
			if err != nil {
				return err
			}
			t, stats, err := crystvox.RunJob(cfg)
			if err != nil {
				return err
			}
			return printSummary(cmd, t, stats)
		},
	}
	cmd.Flags().String("config", "", "job config file (.json, .yaml, .yml)")
	cmd.Flags().StringSlice("species", nil, "channel order (default H,O,N,C,P,Cu,Co,Ag,Zn,Cd,Fe)")
	cmd.Flags().IntSlice("dims", nil, "grid resolution D0,D1,D2 (default 32,32,32)")
	cmd.Flags().Float64("spread", 0, "gaussian variance (default 0.5)")
	cmd.Flags().String("strategy", "auto", "auto, serial, voxels, channels, atoms-reduce or atoms-locked")
	cmd.Flags().Int("workers", 0, "worker goroutines (0 = one per CPU)")
	return cmd
}

// buildConfig layers flags and environment over an optional config file.
func buildConfig(v *viper.Viper, args []string) (*crystvox.JobConfig, error) {
	cfg := &crystvox.JobConfig{}
	if path := v.GetString("config"); path != "" {
		loaded, err := crystvox.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Structure = args[0]
	}
	if v.IsSet("species") {
		cfg.Species = v.GetStringSlice("species")
	}
	if v.IsSet("dims") {
		cfg.Dims = v.GetIntSlice("dims")
	}
	if v.IsSet("spread") {
		cfg.Spread = v.GetFloat64("spread")
	}
	if v.IsSet("strategy") {
		s, err := crystvox.ParseStrategy(v.GetString("strategy"))
		if err != nil {
			return nil, err
		}
		cfg.Strategy = s
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if cfg.Structure == "" {
		return nil, fmt.Errorf("no structure file: pass one as argument or set it in --config")
	}
	return cfg, nil
}

func printSummary(cmd *cobra.Command, t *crystvox.Tensor, stats *crystvox.BuildStats) error {
	out := cmd.OutOrStdout()
	shape := t.Shape()
	fmt.Fprintf(out, "tensor %dx%dx%dx%d strategy=%s workers=%d atoms=%d time=%s\n",
		shape[0], shape[1], shape[2], shape[3], stats.Strategy, stats.Workers, stats.Atoms, stats.Elapsed)
	counts := stats.PerSpecies()
	fmt.Fprintf(out, "%-8s %6s %14s %14s  %s\n", "SPECIES", "ATOMS", "SUM", "MAX", "PEAK")
	for _, cs := range t.Summary() {
		fmt.Fprintf(out, "%-8s %6d %14.6g %14.6g  %v\n", cs.Species, counts[cs.Species], cs.Sum, cs.Max, cs.ArgMax)
	}
	return nil
}
