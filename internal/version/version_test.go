package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringDefaultsToBareVersion(t *testing.T) {
	assert.Equal(t, Version, String())
}

func TestStringIncludesStampedBuildInfo(t *testing.T) {
	commit, built := GitCommit, BuildTime
	defer func() { GitCommit, BuildTime = commit, built }()

	GitCommit = "abc1234"
	BuildTime = "2026-08-24T10:00:00Z"
	assert.Equal(t, Version+" (abc1234, built 2026-08-24T10:00:00Z)", String())
}
