package main

import (
	"strings"

	"github.com/spf13/viper"

	actor "github.com/tenzir/actor-framework"
)

// loadOptions reads worker-count / quantum / unhandled-policy /
// mailbox-size from environment variables (ACTORCTL_*) and an optional
// config file, falling back to actor.DefaultOptions() for anything
// unset — the same env-plus-optional-file shape
// webitel-im-delivery-service's config package is built around, wired
// here directly against spf13/viper rather than reproduced by hand.
func loadOptions(configFile string) (actor.Options, error) {
	v := viper.New()
	v.SetEnvPrefix("actorctl")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := actor.DefaultOptions()
	v.SetDefault("worker_count", defaults.WorkerCount)
	v.SetDefault("execution_quantum", defaults.ExecutionQuantum)
	v.SetDefault("max_mailbox_size", defaults.MaxMailboxSize)
	v.SetDefault("exit_on_unhandled", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return actor.Options{}, err
		}
	}

	policy := actor.DropSilently
	if v.GetBool("exit_on_unhandled") {
		policy = actor.ExitWithUnhandled
	}

	return actor.Options{
		WorkerCount:            v.GetInt("worker_count"),
		ExecutionQuantum:       v.GetInt("execution_quantum"),
		UnhandledMessagePolicy: policy,
		MaxMailboxSize:         v.GetInt("max_mailbox_size"),
	}, nil
}
