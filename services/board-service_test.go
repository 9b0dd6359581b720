package services

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlugNormalizesName(t *testing.T) {
	slug := makeSlug("My Sprint Board!")
	assert.True(t, strings.HasPrefix(slug, "my-sprint-board-"), slug)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9-]+$`), slug)
}

func TestMakeSlugTrimsEdgeDashes(t *testing.T) {
	slug := makeSlug("  --Roadmap--  ")
	assert.True(t, strings.HasPrefix(slug, "roadmap-"), slug)
	assert.False(t, strings.HasPrefix(slug, "-"))
}

func TestMakeSlugEmptyNameStillYieldsSlug(t *testing.T) {
	slug := makeSlug("!!!")
	require.NotEmpty(t, slug)
	assert.False(t, strings.Contains(slug, "-"))
	assert.Len(t, slug, 6)
}

func TestMakeSlugIsUniquePerCall(t *testing.T) {
	assert.NotEqual(t, makeSlug("Team Board"), makeSlug("Team Board"))
}
