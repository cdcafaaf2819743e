package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/veridian/clauselens/core"
)

func TestSetupLogger(t *testing.T) {
	run := func(level string) error {
		app := &cli.App{
			Name: "clauselens",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		return app.Run([]string{"clauselens", "--log-level", level})
	}

	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		assert.NoError(t, run(level), level)
	}

	err := run("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
database:
  path: /var/lib/clauselens
  quota_bytes: 1048576
ai:
  analyzer_host: http://models.internal:8080
  analyzer_model: pixtral-12b
  api_token: secret
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := loadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/clauselens", cfg.Database.Path)
	assert.Equal(t, int64(1048576), cfg.Database.QuotaBytes)

	aiCfg := cfg.toAIConfig()
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, "http://models.internal:8080/v1", aiCfg.AnalyzerHost)
	assert.Equal(t, "pixtral-12b", aiCfg.AnalyzerModel)
	assert.Equal(t, "secret", aiCfg.APIToken)
	// Unset fields keep their defaults
	assert.Equal(t, "qwen2.5:3b", aiCfg.AssistantModel)
}

func TestLoadFileConfig_MissingFile(t *testing.T) {
	_, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadFileInput_DetectsMediaType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%fake body"), 0644))

	file, err := readFileInput(path)
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", file.Name)
	assert.Equal(t, core.MediaTypePDF, file.MediaType)
	assert.NotEmpty(t, file.Content)
}

func TestReadFileInput_MissingFile(t *testing.T) {
	_, err := readFileInput(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}
