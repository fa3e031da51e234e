package env

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPodName(t *testing.T) {
	t.Setenv("PODNAME", "marketd-6868d88fbd-bz8zv")
	assert.Equal(t, "marketd-6868d88fbd-bz8zv", PodName())

	t.Setenv("PODNAME", "")
	host, _ := os.Hostname()
	assert.Equal(t, host, PodName())
}

func TestLookup(t *testing.T) {
	t.Setenv("MARKETD_ENV", "staging")
	assert.Equal(t, "staging", Lookup("MARKETD_ENV", "dev"))
	assert.Equal(t, "dev", Lookup("MARKETD_UNSET", "dev"))
}
