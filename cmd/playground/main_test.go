package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"shader-playground/internal/commands"
	"shader-playground/internal/engineconfig"
	"shader-playground/internal/mesh"
	"shader-playground/internal/scenedef"
)

func TestDumpFullYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDump(&buf, dumpOptions{width: 2, height: 2, policy: "full", format: "yaml"}))

	var doc dumpDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, mesh.FullConfig(), doc.Config)
	assert.Equal(t, 18, doc.Vertices)
	assert.Equal(t, 6, doc.Triangles)
	require.NotNil(t, doc.Mesh)
	assert.Len(t, doc.Mesh.Normals, 54)
	assert.Len(t, doc.Mesh.UVs, 36)
}

func TestDumpMinimalJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDump(&buf, dumpOptions{width: 1, height: 3, policy: "minimal", format: "json"}))

	var doc dumpDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 5, doc.Vertices)
	assert.Equal(t, 4, doc.Triangles)
	assert.Nil(t, doc.Mesh.UVs)
	assert.Nil(t, doc.Mesh.Normals)
	assert.Equal(t, float32(3), doc.Mesh.Positions[13])
}

func TestDumpExplicitFlagsOverridePolicy(t *testing.T) {
	var buf bytes.Buffer
	o := dumpOptions{
		width: 2, height: 2, policy: "minimal", format: "json",
		capped: true, uvs: true,
		set: map[string]bool{"capped": true, "uvs": true},
	}
	require.NoError(t, runDump(&buf, o))

	var doc dumpDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 6, doc.Triangles)
	assert.Len(t, doc.Mesh.UVs, 10)
}

func TestDumpErrors(t *testing.T) {
	var buf bytes.Buffer
	err := runDump(&buf, dumpOptions{width: 0, height: 2, policy: "full", format: "yaml"})
	assert.True(t, errors.Is(err, mesh.ErrInvalidArgument))

	assert.Error(t, runDump(&buf, dumpOptions{width: 1, height: 1, policy: "dense", format: "yaml"}))
	assert.Error(t, runDump(&buf, dumpOptions{width: 1, height: 1, policy: "full", format: "toml"}))
}

func TestShadersCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runShaders(&buf, shadersOptions{}))
	out := buf.String()
	assert.Contains(t, out, "textured     ok")
	assert.Contains(t, out, "sampler mainTexture")
	assert.Contains(t, out, "uniform inverseTranspose(inverseTranspose)")
}

func TestShadersCommandExportAndBrokenOverride(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, runShaders(&buf, shadersOptions{export: dir, dir: dir}))
	assert.FileExists(t, filepath.Join(dir, "lit.vert"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lit.vert"), []byte("#version 330\nvoid main() {}\n"), 0644))
	buf.Reset()
	err := runShaders(&buf, shadersOptions{dir: dir})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "lit          FAIL")
	assert.Contains(t, buf.String(), "silhouette   ok")
}

func TestPreferencesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	prefs, err := preferences(runOptions{config: path, variant: "lit", shaderDir: "shaders", hot: true, save: true})
	require.NoError(t, err)
	assert.Equal(t, "lit", prefs.Variant)
	assert.True(t, prefs.HotReload)

	saved, err := engineconfig.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, prefs, saved)
}

func TestPreferencesDefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())
	prefs, err := preferences(runOptions{variant: "silhouette", save: true})
	require.NoError(t, err)
	assert.True(t, prefs.GridVisible)
	assert.FileExists(t, engineconfig.EngineConfigPath)

	saved, err := engineconfig.Load()
	require.NoError(t, err)
	assert.Equal(t, "silhouette", saved.Variant)
}

func TestSceneDefinition(t *testing.T) {
	prefs := engineconfig.Default()
	def, err := sceneDefinition(prefs)
	require.NoError(t, err)
	assert.Equal(t, "textured", def.Name)

	prefs.Variant = "missing"
	_, err = sceneDefinition(prefs)
	assert.True(t, errors.Is(err, scenedef.ErrUnknownScene))

	prefs.ScenePath = filepath.Join(t.TempDir(), "nope.yaml")
	_, err = sceneDefinition(prefs)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRegistryDispatch(t *testing.T) {
	reg := newRegistry()
	assert.Equal(t, []string{"dump", "run", "shaders"}, reg.Names())
	assert.True(t, errors.Is(reg.Execute([]string{"bogus"}), commands.ErrUnknownCommand))
}
