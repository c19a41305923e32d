package macros

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so consecutive Execute calls
// in one process do not leak values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace([]string{})
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	require.NoError(t, err, "macros %v\n%s", args, out)
	return out
}

func TestRootHelp(t *testing.T) {
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	require.NoError(t, rootCmd.Execute())
	assert.NotZero(t, buf.Len())
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.db")
	for i := 0; i < 2; i++ {
		out := mustRun(t, path, "init")
		assert.Contains(t, out, "Initialized macros database at "+path)
	}
}

func TestCatalogListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.db")

	units := mustRun(t, path, "units")
	assert.Contains(t, units, "fl-oz")
	assert.Contains(t, units, "kcal")

	nutrients := mustRun(t, path, "nutrients")
	assert.Contains(t, nutrients, "1\tquantity\tmass|volume\ttrue")
	assert.Contains(t, nutrients, "caffeine")
}

func TestRegistryExtensionFlag(t *testing.T) {
	dir := t.TempDir()
	reg := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(reg, []byte("nutrients:\n  - name: vitamin c\n    types: [mass]\nunits:\n  - name: scoops\n    abbr: scoop\n    metric_equivalent: 31\n    type: mass\n"), 0o600))
	path := filepath.Join(dir, "macros.db")

	out := mustRun(t, path, "--registry", reg, "nutrients")
	assert.Contains(t, out, "vitamin_c\tmass\tfalse")

	mustRun(t, path, "--registry", reg, "food", "add", "Shake", "--quantity", "1scoop", "-n", "vitamin_c=90mg", "-n", "protein=24g")
	show := mustRun(t, path, "--registry", reg, "food", "show", "shake", "--per", "62", "--unit", "g")
	assert.Contains(t, show, "protein\t48\tg")
}

func TestFoodMealGoalFlow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.db")
	mustRun(t, path, "init")

	mustRun(t, path, "food", "add", "Oats", "--quantity", "100g",
		"-n", "energy=1580kJ", "-n", "protein=13g", "-n", "fat=7g", "-n", "carbohydrate=60g", "-n", "fibre=10g")
	mustRun(t, path, "food", "add", "Milk", "--quantity", "100ml", "--density", "1.03",
		"-n", "energy=64kcal", "-n", "protein=3.4g", "-n", "fat=3.6g", "-n", "carbohydrate=4.8g")

	list := mustRun(t, path, "food", "list")
	assert.Contains(t, list, "Milk\t1.03")

	half := mustRun(t, path, "food", "show", "oats", "--per", "50", "--unit", "g")
	assert.Contains(t, half, "protein\t6.5\tg")
	assert.Contains(t, half, "quantity\t50\tg")
	assert.Contains(t, half, "Energy from macros:")

	cup := mustRun(t, path, "food", "show", "milk", "--unit", "cup")
	assert.Contains(t, cup, "quantity\t")
	assert.Contains(t, cup, "\tcup")

	mustRun(t, path, "meal", "create", "Porridge")
	mustRun(t, path, "meal", "add", "porridge", "oats", "50g")
	mustRun(t, path, "meal", "add", "porridge", "milk", "200ml")

	_, err := run(t, path, "meal", "add", "porridge", "oats", "1cup")
	assert.ErrorContains(t, err, "density")

	meal := mustRun(t, path, "meal", "show", "porridge")
	assert.Contains(t, meal, "protein\t13.3\tg")
	assert.Contains(t, meal, "quantity\t256\tg")
	assert.Contains(t, meal, "fibre\t5*\tg")

	mustRun(t, path, "meal", "save-as-food", "porridge", "--name", "Porridge bowl")
	saved := mustRun(t, path, "food", "show", "porridge bowl")
	assert.Contains(t, saved, "protein\t13.3\tg")

	mustRun(t, path, "goal", "set", "breakfast", "-n", "protein=20g", "-n", "fibre=10g")
	progress := mustRun(t, path, "goal", "progress", "breakfast", "--meal", "porridge")
	assert.Contains(t, progress, "protein\t13.3\t20\tg\t66.5%\toff")
	assert.Contains(t, progress, "fibre\t5*\t10\tg\t50%\toff")

	_, err = run(t, path, "goal", "progress", "breakfast")
	assert.ErrorContains(t, err, "--meal")
}

func TestConfigDisplayUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.db")
	mustRun(t, path, "food", "add", "Salt", "--quantity", "1g", "-n", "sodium=0.39g")

	show := mustRun(t, path, "food", "show", "salt")
	assert.Contains(t, show, "sodium\t390\tmg")

	mustRun(t, path, "config", "set", "display_unit.sodium", "g")
	show = mustRun(t, path, "food", "show", "salt")
	assert.Contains(t, show, "sodium\t0.39\tg")

	value := mustRun(t, path, "config", "get", "display_unit.sodium")
	assert.Equal(t, "g\n", value)

	_, err := run(t, path, "config", "set", "display_unit.sodium", "kcal")
	assert.Error(t, err)

	all := mustRun(t, path, "config", "get")
	assert.Contains(t, all, "display_unit.energy\tkcal")
}

func TestIncompleteFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.db")
	mustRun(t, path, "food", "add", "Bread", "--quantity", "1oz", "-n", "sugar=1g", "-n", "fat=2g", "--incomplete", "sugar")
	show := mustRun(t, path, "food", "show", "bread")
	assert.Contains(t, show, "sugar\t1*\tg")
	assert.Contains(t, show, "fat\t2\tg")
	assert.Contains(t, show, "quantity\t1\toz")

	mustRun(t, path, "food", "update", "bread", "--incomplete", "fat")
	show = mustRun(t, path, "food", "show", "bread")
	assert.Contains(t, show, "fat\t2*\tg")

	_, err := run(t, path, "food", "update", "bread", "--incomplete", "fibre")
	assert.ErrorContains(t, err, "no fibre value")
}
