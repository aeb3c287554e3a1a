package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lukaszgryglicki/crystvox/internal/crystvox"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waterINP = `water
#
#
#
#
#
#
#
CELL
10.0 10.0 10.0
ANGLES
90.0 90.0 90.0
#
#
#
#
ATOMS
O1 0.5 0.5 0.5 O
H1 0.4 0.5 0.5 H
H2 0.6 0.5 0.5 H
`

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	inp := writeTemp(t, "water.inp", waterINP)
	out, err := run(t, "build", inp, "--species", "H,O", "--dims", "4,4,4", "--spread", "2", "--strategy", "serial")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "tensor 2x4x4x4 strategy=serial"), lines[0])
	require.Equal(t, []string{"SPECIES", "ATOMS", "SUM", "MAX", "PEAK"}, strings.Fields(lines[1]))
	require.Equal(t, "H", strings.Fields(lines[2])[0])
	require.Equal(t, "2", strings.Fields(lines[2])[1])
	require.Equal(t, "O", strings.Fields(lines[3])[0])
	require.Equal(t, "1", strings.Fields(lines[3])[1])
	require.Contains(t, lines[3], "[2 2 2]")
}

func TestBuildCommandConfigAndOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water.inp"), []byte(waterINP), 0o644))
	cfg := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("structure: water.inp\nspecies: [O, H, N]\ndims: [2, 2, 2]\n"), 0o644))

	out, err := run(t, "build", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "tensor 3x2x2x2")

	out, err = run(t, "build", "--config", cfg, "--dims", "3,3,3", "--workers", "2", "--strategy", "channels")
	require.NoError(t, err)
	require.Contains(t, out, "tensor 3x3x3x3 strategy=channels workers=2")
}

func TestBuildCommandEnvironment(t *testing.T) {
	inp := writeTemp(t, "water.inp", waterINP)
	t.Setenv("CRYSTVOX_SPREAD", "1.5")
	t.Setenv("CRYSTVOX_STRATEGY", "voxels")
	out, err := run(t, "build", inp, "--dims", "2,2,2", "--species", "H,O")
	require.NoError(t, err)
	require.Contains(t, out, "strategy=voxels")
}

func TestBuildCommandErrors(t *testing.T) {
	_, err := run(t, "build")
	require.ErrorContains(t, err, "no structure file")

	inp := writeTemp(t, "water.inp", waterINP)
	_, err = run(t, "build", inp, "--species", "H")
	require.ErrorIs(t, err, crystvox.ErrUnknownSpecies)

	_, err = run(t, "build", inp, "--strategy", "gpu")
	require.ErrorIs(t, err, crystvox.ErrInvalidConfig)

	_, err = run(t, "build", inp, "--dims", "2,2")
	require.ErrorIs(t, err, crystvox.ErrInvalidConfig)
}

func TestParamsCommand(t *testing.T) {
	inp := writeTemp(t, "water.inp", waterINP)
	out, err := run(t, "params", inp)
	require.NoError(t, err)

	var got struct {
		Params  map[string]float64 `json:"params"`
		Volume  float64            `json:"volume"`
		Matrix  [3][3]float64      `json:"matrix"`
		Atoms   int                `json:"atoms"`
		Species []string           `json:"species"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, 10.0, got.Params["a"])
	require.InDelta(t, 1.5707963267948966, got.Params["gamma"], 1e-12)
	require.InDelta(t, 1000, got.Volume, 1e-9)
	require.Equal(t, 10.0, got.Matrix[0][0])
	require.InDelta(t, 10, got.Matrix[1][1], 1e-12)
	require.InDelta(t, 10, got.Matrix[2][2], 1e-12)
	require.Zero(t, got.Matrix[2][0])
	require.Equal(t, 3, got.Atoms)
	require.Equal(t, []string{"O", "H"}, got.Species)

	_, err = run(t, "params")
	require.Error(t, err)
}
