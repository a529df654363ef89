package manifest_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/enhance"
	"github.com/aretw0/enhance/pkg/app"
	"github.com/aretw0/enhance/pkg/domain"
	"github.com/aretw0/enhance/pkg/manifest"
	"github.com/aretw0/enhance/pkg/plugins/builtin"
	"github.com/aretw0/enhance/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	builtin.Register(reg)
	return reg
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, manifest.FormatJSON, manifest.FormatFromPath("a/b.JSON"))
	assert.Equal(t, manifest.FormatTOML, manifest.FormatFromPath("p.toml"))
	assert.Equal(t, manifest.FormatYAML, manifest.FormatFromPath("p.yml"))
	assert.Equal(t, manifest.FormatYAML, manifest.FormatFromPath("p"))
}

func TestLoad_YAML(t *testing.T) {
	m, err := manifest.Load(filepath.Join("testdata", "pipeline.yaml"))
	require.NoError(t, err)

	assert.Equal(t, domain.Options{"env": "dev"}, m.Options)
	require.Len(t, m.Steps, 3)
	assert.Equal(t, domain.Options{"first": "yes"}, m.Steps[0].Options)
	assert.Equal(t, manifest.Entry{Name: "set", Config: map[string]any{"key": "foo", "value": "fooooo"}}, m.Steps[0].Plugins[0])
	assert.Equal(t, manifest.Entry{Name: "fail"}, m.Steps[1].Plugins[1], "bare string is shorthand for a name")
}

func TestLoad_TOML(t *testing.T) {
	m, err := manifest.Load(filepath.Join("testdata", "pipeline.toml"))
	require.NoError(t, err)

	assert.Equal(t, "dev", m.Options["env"])
	require.Len(t, m.Steps, 2)
	assert.Equal(t, []manifest.Entry{{Name: "fail"}}, m.Steps[0].Plugins)
	require.Len(t, m.Steps[1].Plugins, 1)
	assert.Equal(t, "set", m.Steps[1].Plugins[0].Name)
	assert.Equal(t, "fooooo", m.Steps[1].Plugins[0].Config["value"])
}

func TestLoad_JSON(t *testing.T) {
	m, err := manifest.Load(filepath.Join("testdata", "pipeline.json"))
	require.NoError(t, err)

	require.Len(t, m.Steps, 1)
	assert.Equal(t, "fail", m.Steps[0].Plugins[0].Name)
	assert.Equal(t, "set", m.Steps[0].Plugins[1].Name)
}

func TestLoad_Missing(t *testing.T) {
	_, err := manifest.Load(filepath.Join("testdata", "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read manifest")
}

func TestParse_Errors(t *testing.T) {
	_, err := manifest.Parse([]byte("steps: [unclosed"), manifest.FormatYAML)
	assert.ErrorContains(t, err, "failed to parse yaml")

	_, err = manifest.Parse([]byte("stepz: []"), manifest.FormatYAML)
	assert.ErrorContains(t, err, "invalid manifest")

	_, err = manifest.Parse([]byte("{}"), manifest.Format("xml"))
	assert.ErrorContains(t, err, "unsupported format")
}

func TestValidate(t *testing.T) {
	m, err := manifest.Parse([]byte(`
steps:
  - plugins: [set, ghost]
  - plugins:
      - config: {key: a}
`), manifest.FormatYAML)
	require.NoError(t, err)

	err = m.Validate(newRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
	assert.Contains(t, err.Error(), "steps[0].plugins[1]")
	assert.Contains(t, err.Error(), "steps[1].plugins[0]: missing name")
}

func TestApply_EndToEnd(t *testing.T) {
	reg := newRegistry()
	m, err := manifest.Load(filepath.Join("testdata", "pipeline.yaml"))
	require.NoError(t, err)
	require.NoError(t, m.Validate(reg))

	a := app.New().Use(app.Runner()).Use(enhance.New(m.Options))
	var got []error
	a.OnError(func(err error) { got = append(got, err) })

	ctx := domain.Context{"charlike": "mike"}
	m.Apply(a, reg).Run(ctx)

	require.NoError(t, a.Err())
	require.Len(t, got, 1, "only the fail plugin should report")

	var perr *domain.PluginError
	require.ErrorAs(t, got[0], &perr)
	assert.Equal(t, "fail", perr.Name)
	assert.Equal(t, 1, perr.Index)

	assert.Equal(t, "fooooo", ctx["foo"])
	assert.Equal(t, "barrr", ctx["bar"])
	assert.Equal(t, 123, ctx["qux"], "plugins after a failing one still register")
	assert.Equal(t, "dev", ctx["opt.env"])
	assert.Equal(t, "yes", ctx["opt.first"])
	assert.Equal(t, true, ctx["opt.multiple"])
}

func TestApply_UnbuildableEntryReportsAtItsPosition(t *testing.T) {
	reg := newRegistry()
	m, err := manifest.Parse([]byte(`{"steps":[{"plugins":["ghost", {"name":"set","config":{"key":"k","value":"v"}}]}]}`), manifest.FormatJSON)
	require.NoError(t, err)

	a := app.New().Use(app.Runner()).Use(enhance.New(nil))
	var got []error
	a.OnError(func(err error) { got = append(got, err) })

	ctx := domain.Context{}
	m.Apply(a, reg).Run(ctx)

	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0], domain.ErrPluginNotFound)
	var perr *domain.PluginError
	require.ErrorAs(t, got[0], &perr)
	assert.Equal(t, 0, perr.Index)
	assert.Equal(t, "v", ctx["k"])
}
