package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	actor "github.com/tenzir/actor-framework"
	"github.com/tenzir/actor-framework/netmiddleman"
)

// runCmd is the single subcommand of this demo, mirroring
// webitel-im-delivery-service/cmd/cmd.go's serverCmd: load config, spawn
// the system, serve, wait for SIGINT/SIGTERM, then shut down cleanly.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "spawn a named echo actor and serve the websocket middleman",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a config file (optional; env ACTORCTL_* always applies)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "address to listen on",
				Value: ":8088",
			},
		},
		Action: func(c *cli.Context) error {
			opts, err := loadOptions(c.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			sys := actor.NewSystem(opts)
			sys.SetHooks(&actor.Hooks{
				ActorTerminated: func(id actor.ActorId, reason actor.ExitReason) {
					fmt.Printf("actor %d terminated: reason=%d\n", uint64(id), reason)
				},
			})

			echo, err := sys.Spawn(actor.BehaviorFunc(echoBehavior), actor.SpawnOptions{Name: "echo"})
			if err != nil {
				return fmt.Errorf("spawning echo actor: %w", err)
			}
			sys.AddRoot(echo.Id())

			mm := netmiddleman.New(sys)
			mux := http.NewServeMux()
			mux.Handle("/ws", mm.Handler())
			mux.HandleFunc("/healthz", healthCheck)

			srv := &http.Server{Addr: c.String("addr"), Handler: mux}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					fmt.Fprintln(os.Stderr, "actorctl: http server error:", err)
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			fmt.Println("actorctl: shutting down...")
			_ = srv.Shutdown(context.Background())
			sys.Shutdown()
			return nil
		},
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// echoBehavior answers any netmiddleman.Frame by echoing its payload
// back to the sending connection actor.
func echoBehavior(ctx *actor.Context, env *actor.Envelope) actor.HandleOutcome {
	if env.Payload.Len() == 0 {
		return actor.Continue(false)
	}
	switch v := env.Payload.At(0).(type) {
	case actor.Started:
		return actor.Continue(true)
	case netmiddleman.Frame:
		sender := ctx.System().Registry().GetID(env.Sender.ActorId())
		if sender.IsValid() {
			ctx.Send(sender, actor.PriorityNormal, netmiddleman.Outbound{
				Target:  "echo",
				Payload: v.Payload,
			})
		}
		return actor.Continue(true)
	case actor.ExitMessage:
		return actor.Terminate(v.Reason)
	default:
		return actor.Continue(false)
	}
}
