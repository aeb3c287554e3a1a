package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lukaszgryglicki/crystvox/internal/crystvox"
)

func newParamsCmd(_ *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "params structure.inp",
		Short: "Print the lattice parameters (a, b, c, angles in radians), cell volume and fractional→Cartesian matrix as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := crystvox.LoadINP(args[0])
			if err != nil {
				return err
			}
			out := map[string]interface{}{
				"params":  st.Params(),
				"volume":  st.Lattice().Volume(),
				"matrix":  st.Lattice().Matrix().M,
				"atoms":   st.Len(),
				"species": st.SpeciesPresent(),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
