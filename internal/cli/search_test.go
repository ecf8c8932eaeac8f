package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
)

func TestSearchCmd_Registered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "search" {
			found = true
		}
	}
	assert.True(t, found, "search should be registered on the root command")
}

func TestSearchCmd_HasFilterFlags(t *testing.T) {
	flags := []string{
		"namelike", "language", "tags", "exclude-tags", "or",
		"min-tokens", "max-tokens", "min-tags", "min-users-chatted",
		"max-days-ago", "min-ai-rating",
		"sort", "asc", "page", "first", "json",
	}
	for _, name := range flags {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), "flag --%s should exist", name)
	}
}

func TestSearchCmd_HasRequirementFlags(t *testing.T) {
	for _, name := range searchBoolFlags {
		flag := searchCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag --%s should exist", name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestApplyBoolFlags_OnlyChangedFlagsAreExplicit(t *testing.T) {
	cmd := searchCmd
	require.NoError(t, cmd.Flags().Set("nsfw", "true"))
	defer func() {
		require.NoError(t, cmd.Flags().Set("nsfw", "false"))
		cmd.Flags().Lookup("nsfw").Changed = false
	}()

	var raw api.RawOptions
	applyBoolFlags(cmd, &raw)

	require.NotNil(t, raw.NSFW)
	assert.True(t, *raw.NSFW)
	// untouched flags stay unresolved rather than explicit false
	assert.Nil(t, raw.NSFL)
	assert.Nil(t, raw.RequireImages)
}
