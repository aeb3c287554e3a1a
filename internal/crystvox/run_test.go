package crystvox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	inp := inpText("10 10 10", "90 90 90", "O1 0.5 0.5 0.5 O", "H1 0.4 0.5 0.5 H", "H2 0.6 0.5 0.5 H")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water.inp"), []byte(inp), 0o644))
	cfgPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("structure: water.inp\nspecies: [H, O]\ndims: [4, 4, 4]\nspread: 2\n"), 0o644))

	tn, stats, err := Run(cfgPath)
	require.NoError(t, err)
	require.Equal(t, [4]int{2, 4, 4, 4}, tn.Shape())
	require.Equal(t, map[string]int{"H": 2, "O": 1}, stats.PerSpecies())
	require.Equal(t, int64(3), stats.AtomsDone())

	s := tn.Summary()
	require.Equal(t, [3]int{2, 2, 2}, s[1].ArgMax)
	require.InDelta(t, gaussNorm, s[1].Max, 1e-12)

	st, err := LoadINP(filepath.Join(dir, "water.inp"))
	require.NoError(t, err)
	want, err := BuildTensor(st, []string{"H", "O"}, Dims{4, 4, 4}, 2)
	require.NoError(t, err)
	require.InDeltaSlice(t, want.Buf, tn.Buf, 1e-12)
}

func TestRunErrors(t *testing.T) {
	_, _, err := Run(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	cfg := writeFile(t, "job.json", `{"structure": "nowhere.inp"}`)
	_, _, err = Run(cfg)
	require.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.inp"), []byte(inpText("5 5 5", "90 90 90", "X 0 0 0 Xx")), 0o644))
	_, _, err = RunJob(&JobConfig{Structure: filepath.Join(dir, "x.inp"), Species: []string{"H"}})
	require.ErrorIs(t, err, ErrUnknownSpecies)

	_, _, err = RunJob(&JobConfig{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
