package main_test

import (
	"bytes"
	"context"
	"testing"

	main "github.com/Mario263/Technical-Web-scraper/cmd/scraper"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"run", "url", "classify", "export", "history"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "--log-level")
	assert.Contains(t, helpOutput, "--log-format")
}

func TestCLI_ParsesRunFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{
		"--log-format", "json",
		"run", "-c", "sites.yaml", "-o", "out.json",
		"--team-id", "aline123", "--concurrency", "4", "--deadline", "2m",
		"--strategy", "trafilatura",
	})

	require.NoError(t, err)
	assert.Equal(t, "json", cli.LogFormat)
	assert.Equal(t, "info", cli.LogLevel)
	assert.Equal(t, "sites.yaml", cli.Run.Config)
	assert.Equal(t, "out.json", cli.Run.Output)
	assert.Equal(t, "aline123", cli.Run.TeamID)
	assert.Equal(t, 4, cli.Run.Concurrency)
	assert.Equal(t, "2m0s", cli.Run.Deadline.String())
	assert.Equal(t, "trafilatura", cli.Run.Strategy)
}

func TestCLI_RejectsUnknownLogLevel(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--log-level", "loud", "classify", "https://example.com"})

	assert.Error(t, err)
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:", "Help should have Kong-style Usage prefix")
	assert.Contains(t, helpOutput, "Flags:", "Help should have Kong-style Flags section")
}
