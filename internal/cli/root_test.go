package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
)

const projectConfig = `
[defaults]
credential = "LVG_CLI_TEST_PK"

[networks.fantom]
rpc = "https://rpc.ftm.tools"
chain_id = 250
`

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func enterProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lvgdeploy.toml"), []byte(projectConfig), 0644))
	t.Chdir(dir)
	return dir
}

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"deploy", "verify", "list", "networks", "variants", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestVariantsCmd_RunsWithoutProject(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := runCmd(t, "variants")
	require.NoError(t, err)
	assert.Contains(t, out, "pool+provider")
	assert.Contains(t, out, "provider+weth")
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lvgdeploy version")
}

func TestNetworksCmd(t *testing.T) {
	enterProject(t)

	out, err := runCmd(t, "networks")
	require.NoError(t, err)
	assert.Contains(t, out, "fantom")
	assert.Contains(t, out, "250")
}

func TestListCmd(t *testing.T) {
	enterProject(t)

	out, err := runCmd(t, "list", "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		Deployments []any `json:"deployments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Empty(t, decoded.Deployments)

	_, err = runCmd(t, "list", "--format", "csv")
	assert.Error(t, err)

	_, err = runCmd(t, "list", "--network", "unknownchain")
	assert.Equal(t, domain.ErrUnknownNetwork, domain.KindOf(err))
}

func TestDeployCmd_Validation(t *testing.T) {
	enterProject(t)

	_, err := runCmd(t, "deploy", "pool+weth", "fantom", "--dry-run")
	assert.Equal(t, domain.ErrUnknownVariant, domain.KindOf(err))

	_, err = runCmd(t, "deploy", "pool", "fantom", "--arg", "lending_pool")
	assert.ErrorContains(t, err, "expected name=value")

	_, err = runCmd(t, "--non-interactive", "deploy", "pool")
	assert.Equal(t, domain.ErrUnknownNetwork, domain.KindOf(err))
}

func TestCommandsOutsideProject(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCmd(t, "networks")
	assert.Equal(t, domain.ErrInvalidConfig, domain.KindOf(err))
}
