package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eepbuilder/internal/config"
	"git.home.luguber.info/inful/eepbuilder/internal/errors"
)

const sampleEEP = `EEP: 7
Title: Foreign Function Interface
Author: Tony Rogvall <tony@rogvall.se>
Status: Draft
Type: Standards Track

Abstract
========

Refer to RFC 2822.
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("eepbuilder"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Run(&Global{}, cli)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "eep-0007.md")
	out := filepath.Join(dir, "out", "eep-0007.html")
	require.NoError(t, os.WriteFile(in, []byte(sampleEEP), 0o600))

	require.NoError(t, run(t, "render", in, "-o", out,
		"--no-random", "--no-rfc-references", "--no-toc", "--erlang-home", ".."))

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "<title>EEP 7 -- Foreign Function Interface</title>")
	assert.Contains(t, html, "erlang-banner-00.png")
	assert.Contains(t, html, `href="./">EEP Index`)
	assert.NotContains(t, html, "rfc-editor.org")
	assert.NotContains(t, html, `class="contents topic"`)
}

func TestRender_ConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("eep-0007.md", []byte(sampleEEP), 0o600))
	require.NoError(t, os.WriteFile("eepbuilder.yaml", []byte("writer:\n  no_random: true\n  erlang_home: https://erlang.example\n"), 0o600))

	require.NoError(t, run(t, "render", "eep-0007.md", "-o", "a.html"))
	page, err := os.ReadFile("a.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "https://erlang.example/eeps")
	assert.Contains(t, string(page), "rfc-editor.org/rfc/rfc2822.html")

	require.NoError(t, run(t, "render", "eep-0007.md", "-o", "b.html", "--erlang-home", "https://flag.example"))
	page, err = os.ReadFile("b.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "https://flag.example/eeps")
}

func TestRender_NotAnEEP(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("plain.md", []byte("Just text.\n"), 0o600))

	err := run(t, "render", "plain.md", "-o", "plain.html")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))
	assert.Equal(t, 11, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRender_MissingExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("eep-0007.md", []byte(sampleEEP), 0o600))

	err := run(t, "--config", "missing.yaml", "render", "eep-0007.md")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("eeps", 0o750))
	require.NoError(t, os.WriteFile(filepath.Join("eeps", "eep-0007.md"), []byte(sampleEEP), 0o600))

	require.NoError(t, run(t, "build", "-s", "eeps", "-o", "site", "-w", "1"))

	for _, name := range []string{"eep-0007.html", "eep-0000.html", "eep.css"} {
		assert.FileExists(t, filepath.Join(dir, "site", name))
	}

	require.NoError(t, run(t, "build", "-s", "eeps", "-o", "site2", "--no-index"))
	assert.NoFileExists(t, filepath.Join(dir, "site2", "eep-0000.html"))
}

func TestBuild_InvalidFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	err := run(t, "build", "-s", "same", "-o", "same")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, run(t, "init", "-o", dir))
	cfg, err := config.Load(filepath.Join(dir, config.DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, config.CurrentVersion, cfg.Version)

	err = run(t, "init", "-o", dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "--force"))
	require.NoError(t, run(t, "init", "-o", dir, "--force"))
}
