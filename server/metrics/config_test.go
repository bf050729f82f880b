package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigWeights(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2.0, cfg.Weights.Obligation)
	assert.Equal(t, 5.0, cfg.Weights.Prohibition)
	assert.Equal(t, 3.0, cfg.Weights.Requirement)
	assert.Equal(t, 4.0, cfg.Weights.Enforcement)
	assert.Equal(t, 0.5, cfg.Weights.CrossrefDensity)
	assert.NotEmpty(t, cfg.ObligationTerms)
}

func TestLoadConfigOverridesListedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.yaml")
	content := `
obligation_terms:
  - shall
weights:
  obligation: 10
  prohibition: 5
  requirement: 3
  enforcement: 4
  crossref_density: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"shall"}, cfg.ObligationTerms)
	assert.Equal(t, 10.0, cfg.Weights.Obligation)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().ProhibitionTerms, cfg.ProhibitionTerms)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
