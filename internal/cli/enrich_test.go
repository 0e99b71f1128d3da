package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichCommandStdin(t *testing.T) {
	var out bytes.Buffer
	enrichCmd.SetIn(strings.NewReader(`{"campaign_id":"c1","spend":"100","clicks":"50","conversions":"5","conversion_values":"400"}`))
	enrichCmd.SetOut(&out)
	t.Cleanup(func() { enrichCmd.SetIn(nil); enrichCmd.SetOut(nil) })

	require.NoError(t, runEnrich(enrichCmd, nil))
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "c1", got["campaign_id"])
	assert.Equal(t, 100.0, got["attributely_score"])
}

func TestEnrichCommandFileArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"campaign_id":"a"},{"campaign_id":"b","spend":"x"}]`), 0o600))

	var out bytes.Buffer
	enrichCmd.SetOut(&out)
	t.Cleanup(func() { enrichCmd.SetOut(nil) })

	require.NoError(t, runEnrich(enrichCmd, []string{path}))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1]["campaign_id"])
	assert.Equal(t, "F", got[1]["performance_grade"])
}

func TestEnrichCommandBadInput(t *testing.T) {
	enrichCmd.SetIn(strings.NewReader(`{nope`))
	t.Cleanup(func() { enrichCmd.SetIn(nil) })
	assert.Error(t, runEnrich(enrichCmd, nil))

	assert.Error(t, runEnrich(enrichCmd, []string{filepath.Join(t.TempDir(), "missing.json")}))
}
