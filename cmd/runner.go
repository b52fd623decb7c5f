package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mossriver/poolside/internal/idp"
	"github.com/mossriver/poolside/internal/session"
	"github.com/mossriver/poolside/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	adapter idp.Adapter
	ctrl    *session.Controller
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Adapter idp.Adapter
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		adapter: opts.Adapter,
		ctrl:    session.NewController(opts.Adapter),
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger replaces the Runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, statusCommand, logoutCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// idpConfig maps the loaded application config onto the adapter's config.
func (r *Runner) idpConfig() idp.Config {
	cfg := idp.Config{
		ClientID:  r.config.Credentials.Cognito.ClientID,
		Region:    r.config.Credentials.Cognito.Region,
		CachePath: r.config.Cache.Path,
	}
	if identity := r.config.Credentials.Identity; identity.Enabled() {
		cfg.Identity = &idp.IdentityMapping{
			UserPoolID:     identity.UserPoolID,
			IdentityPoolID: identity.IdentityPoolID,
			AccountID:      identity.AccountID,
		}
	}
	return cfg
}

// drive executes the queued effects until the session is quiescent, feeding
// each adapter outcome back through the controller. Restore timers are
// collapsed: headless commands have no render loop to keep responsive, so the
// silent-restore attempt runs immediately instead of after a delay.
func (r *Runner) drive(ctx context.Context, st session.State, effects []session.Effect) session.State {
	queue := effects
	for len(queue) > 0 {
		effect := queue[0]
		queue = queue[1:]

		var ev session.Event
		switch effect := effect.(type) {
		case session.ScheduleRestore:
			ev = session.InitialTimeout{}
		case session.Invoke:
			out := r.adapter.Execute(ctx, effect.Request, clientOf(st))
			if out == nil {
				continue
			}
			ev = session.AdapterEvent{Event: out}
		default:
			continue
		}

		var more []session.Effect
		st, more = r.ctrl.Transition(ev, st)
		queue = append(queue, more...)
	}
	return st
}

// send folds one event and drives any effects it requested to completion.
func (r *Runner) send(ctx context.Context, st session.State, ev session.Event) session.State {
	st, effects := r.ctrl.Transition(ev, st)
	return r.drive(ctx, st, effects)
}

func clientOf(st session.State) idp.ClientState {
	model, _ := session.ModelOf(st)
	return model.Client
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
