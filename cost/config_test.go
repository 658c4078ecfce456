package cost_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/cost"
)

// TestLoadPolicyMissingFileFallsBackToDefault checks the ambient-config
// convention: a missing YAML policy file is not an error, it just yields
// DefaultPolicy() unchanged.
func TestLoadPolicyMissingFileFallsBackToDefault(t *testing.T) {
	require := require.New(t)

	p, err := cost.LoadPolicy(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(err)
	require.Equal(cost.DefaultPolicy(), p)
}

// TestLoadPolicyOverridesFieldsFromFile checks a present YAML file
// overrides whichever fields it sets, starting from the defaults.
func TestLoadPolicyOverridesFieldsFromFile(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yml")
	def := cost.DefaultPolicy()
	yaml := "weight_io: 9.5\n"
	require.NoError(os.WriteFile(path, []byte(yaml), 0600))

	p, err := cost.LoadPolicy(path)
	require.NoError(err)
	require.InDelta(9.5, p.WeightIO, 1e-9)
	require.Equal(def.WeightCPU, p.WeightCPU)
	require.Equal(def.MaxWorkers, p.MaxWorkers)
}

// TestLoadPolicyRejectsMalformedYAML checks a present-but-unparseable file
// surfaces an error rather than silently falling back to defaults.
func TestLoadPolicyRejectsMalformedYAML(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yml")
	require.NoError(os.WriteFile(path, []byte("weight_io: [this is not a float}"), 0600))

	_, err := cost.LoadPolicy(path)
	require.Error(err)
}
