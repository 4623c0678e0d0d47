package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	actor "github.com/tenzir/actor-framework"
)

func TestLoadOptionsDefaultsWithoutConfigFile(t *testing.T) {
	opts, err := loadOptions("")
	assert.NoError(t, err)
	assert.Equal(t, actor.DropSilently, opts.UnhandledMessagePolicy)
	assert.Equal(t, 0, opts.MaxMailboxSize)
}

func TestLoadOptionsHonorsEnvOverrides(t *testing.T) {
	t.Setenv("ACTORCTL_WORKER_COUNT", "3")
	t.Setenv("ACTORCTL_EXIT_ON_UNHANDLED", "true")
	defer os.Unsetenv("ACTORCTL_WORKER_COUNT")
	defer os.Unsetenv("ACTORCTL_EXIT_ON_UNHANDLED")

	opts, err := loadOptions("")
	assert.NoError(t, err)
	assert.Equal(t, 3, opts.WorkerCount)
	assert.Equal(t, actor.ExitWithUnhandled, opts.UnhandledMessagePolicy)
}
