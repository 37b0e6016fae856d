package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvbind/pkg/common"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPropertiesFile(t *testing.T) {
	path := writeFile(t, "workload.properties", `
recordcount=500
redis.host=10.0.0.7
redis.port=6380
`)
	p, err := Load([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", p.GetString("redis.host", ""))
	assert.Equal(t, "6380", p.GetString("redis.port", ""))
	assert.Equal(t, "500", p.GetString("recordcount", ""))
}

func TestLoadYAMLFlattens(t *testing.T) {
	path := writeFile(t, "bench.yaml", `
recordcount: 42
redis:
  host: cache.local
  cluster: true
embedded:
  engine: sqlite
  dir: /var/lib/kv
`)
	p, err := Load([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", p.GetString("recordcount", ""))
	assert.Equal(t, "cache.local", p.GetString("redis.host", ""))
	assert.Equal(t, "true", p.GetString("redis.cluster", ""))
	assert.Equal(t, "sqlite", p.GetString("embedded.engine", ""))
	assert.Equal(t, "/var/lib/kv", p.GetString("embedded.dir", ""))
}

func TestLoadLaterFilesAndOverridesWin(t *testing.T) {
	base := writeFile(t, "base.properties", "fieldcount=10\nfieldlength=100\n")
	extra := writeFile(t, "extra.yml", "fieldcount: 4\n")

	p, err := Load([]string{base, extra}, []string{"fieldlength=8", "redis.password=s3=cret"})
	require.NoError(t, err)
	assert.Equal(t, "4", p.GetString("fieldcount", ""))
	assert.Equal(t, "8", p.GetString("fieldlength", ""))
	assert.Equal(t, "s3=cret", p.GetString("redis.password", ""))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]string{"/nonexistent/path/kv.properties"}, nil)
	assert.Error(t, err)

	_, err = Load(nil, []string{"no-equals-sign"})
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "redis: [unterminated\n")
	_, err = Load([]string{bad}, nil)
	assert.Error(t, err)
}

func TestTypedOptions(t *testing.T) {
	p := properties.MustLoadString("n=12\nb=true\nbad=x\nblank=  \n")

	n, err := Int(p, "n", 1)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = Int(p, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = Int(p, "bad", 0)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	b, err := Bool(p, "b", false)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = Bool(p, "bad", false)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	assert.Equal(t, "dflt", String(p, "blank", "dflt"))
}
