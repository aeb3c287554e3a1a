package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lukaszgryglicki/crystvox/internal/crystvox"
)

// newRootCmd wires the command tree to a fresh viper instance so tests can
// run commands in isolation. Every flag can also be set through the
// environment as CRYSTVOX_<FLAG> (dashes become underscores).
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("crystvox")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var (
		logger  *zap.Logger
		profile *os.File
	)

	root := &cobra.Command{
		Use:   "crystvox",
		Short: "Voxelize crystal structures into per-species density tensors",
		Long: `crystvox converts a crystal structure (unit cell + atoms at fractional
coordinates) into a multi-channel 3D density tensor, one channel per species.
Each atom adds a gaussian sampled on a regular grid spanning one unit cell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			config := zap.NewProductionConfig()
			if v.GetBool("debug") {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			crystvox.Debug = v.GetBool("debug")
			crystvox.SetLogger(logger)

			if v.GetBool("profile") {
				profile, err = os.Create("cpu.out")
				if err != nil {
					return err
				}
				if err := pprof.StartCPUProfile(profile); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if profile != nil {
				pprof.StopCPUProfile()
				_ = profile.Close()
			}
			if logger != nil {
				_ = logger.Sync()
			}
			crystvox.SetLogger(nil)
		},
	}

	root.PersistentFlags().Bool("debug", false, "verbose debug logging")
	root.PersistentFlags().Bool("profile", false, "write a CPU profile to cpu.out")

	root.AddCommand(newBuildCmd(v), newParamsCmd(v))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
