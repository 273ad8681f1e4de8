package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xorca-lab/xorca-event/schema"
)

const profilesDoc = `
profiles:
  strict-routing: [to, redirectto]
  order-family:
    require: [to]
    relax: [subject]
  narrow:
    only: [id, type, source, subject, data, time]
`

func TestParseProfiles(t *testing.T) {
	profiles, err := schema.ParseProfiles([]byte(profilesDoc))
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, []string{"to", "redirectto"}, profiles["strict-routing"].Require)
	assert.Equal(t, []string{"to"}, profiles["order-family"].Require)
	assert.Equal(t, []string{"subject"}, profiles["order-family"].Relax)
	assert.Equal(t, []string{"id", "type", "source", "subject", "data", "time"}, profiles["narrow"].Only)
}

func TestParseProfiles_BadDocument(t *testing.T) {
	_, err := schema.ParseProfiles([]byte("profiles: [not, a, mapping"))
	require.Error(t, err)
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profilesDoc), 0o600))

	profiles, err := schema.LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, []string{"to", "redirectto"}, profiles["strict-routing"].Require)
	assert.Equal(t, []string{"to"}, profiles["order-family"].Require)
	assert.Equal(t, []string{"subject"}, profiles["order-family"].Relax)
	assert.Equal(t, []string{"id", "type", "source", "subject", "data", "time"}, profiles["narrow"].Only)
}

func TestLoadProfiles_Missing(t *testing.T) {
	_, err := schema.LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadProfiles_FeedsRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profilesDoc), 0o600))

	profiles, err := schema.LoadProfiles(path)
	require.NoError(t, err)

	reg := schema.NewRegistry(nil, profiles)
	spec, err := reg.Spec("order-family")
	require.NoError(t, err)
	assert.True(t, spec.Fields[schema.FieldTo].Required)
	assert.False(t, spec.Fields[schema.FieldSubject].Required)
}
