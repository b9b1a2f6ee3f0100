package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "dev", GetShortVersion())
	assert.Contains(t, GetVersionInfo(), "streak dev")

	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })
	Version, Commit, Date = "v1.2.0", "abc123", "2024-03-10"

	assert.Equal(t, "v1.2.0", GetShortVersion())
	assert.Equal(t, "streak v1.2.0 (commit: abc123, built: 2024-03-10, "+runtime.GOOS+"/"+runtime.GOARCH+")", GetVersionInfo())
}
