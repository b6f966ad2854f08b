package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `templatePath: deck_template.json
blockPatterns:
  foundationalActs: regulatory_table
  marketOutlook: market_chart
blockSlides:
  foundationalActs: 7
  marketOutlook: 15
tableContextKeys:
  - foundationalActs
chartContextKeys:
  - marketOutlook
`

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slideroute.yml"), []byte(sampleConfig), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "deck_template.json", cfg.TemplatePath)
	assert.Equal(t, "regulatory_table", cfg.Mappings.BlockPatterns["foundationalActs"])
	assert.Equal(t, 7, cfg.Mappings.BlockSlides["foundationalActs"])
	assert.Equal(t, []string{"foundationalActs"}, cfg.Mappings.TableContextKeys)
}

func TestLoad_MissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.TemplatePath)
	assert.Empty(t, cfg.Mappings.BlockPatterns)
}

func TestLoadFile_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("blockSlides: [unterminated"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"version":"1.2","patterns":{"p":{"id":"p","templateSlides":[1]}},"slides":{"1":{}}}`), 0o644))

	src, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "1.2", src.Version)
	assert.Contains(t, src.Patterns, "p")
}

func TestLoadTemplate_RejectsMissingPatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.2"}`), 0o644))

	_, err := LoadTemplate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patterns")
}

func TestLoadRuntimeMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.yml")
	require.NoError(t, os.WriteFile(path, []byte("blockSlides:\n  foundationalActs: 9\n"), 0o644))

	cfg, err := LoadRuntimeMappings(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.BlockSlides["foundationalActs"])
}
