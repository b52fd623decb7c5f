package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mossriver/poolside/internal/idp"
	"github.com/mossriver/poolside/internal/session"
	"github.com/mossriver/poolside/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// statusOutput is the JSON shape emitted by `poolside status --json`.
type statusOutput struct {
	Status  string   `json:"status"`
	Subject string   `json:"subject,omitempty"`
	Scopes  []string `json:"scopes,omitempty"`
}

func statusSummary(status idp.Status) statusOutput {
	switch status := status.(type) {
	case idp.LoggedIn:
		return statusOutput{Status: "logged_in", Subject: status.Subject, Scopes: status.Scopes}
	case idp.Failed:
		return statusOutput{Status: "failed"}
	case idp.Challenged:
		return statusOutput{Status: "challenged"}
	default:
		return statusOutput{Status: "logged_out"}
	}
}

// Login signs in with a username and password, answering a new-password
// challenge interactively if the provider raises one.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		pw, err := r.promptPassword("Password: ")
		if err != nil {
			return err
		}
		password = pw
	}

	// Explicit login skips the silent-restore timer.
	st, _ := r.ctrl.Initialize(ctx, r.idpConfig())
	if errored, ok := st.(session.Errored); ok {
		return fmt.Errorf("initialization failed: %s", errored.Message)
	}

	r.logger.Infof("signing in %s", username)
	st = r.send(ctx, st, session.UpdateUsername{Value: username})
	st = r.send(ctx, st, session.UpdatePassword{Value: password})
	st = r.send(ctx, st, session.LogIn{})

	if model, ok := session.ModelOf(st); ok {
		if _, challenged := model.Status.(idp.Challenged); challenged {
			r.writePlain("A new password is required before signing in.\n")
			newPassword, err := r.promptPassword("New password: ")
			if err != nil {
				return err
			}
			st = r.send(ctx, st, session.UpdatePassword{Value: newPassword})
			st = r.send(ctx, st, session.RespondWithNewPassword{})
		}
	}

	model, _ := session.ModelOf(st)
	switch status := model.Status.(type) {
	case idp.LoggedIn:
		r.writePlain("✓ Signed in as %s\n", status.Subject)
		if len(status.Scopes) > 0 {
			r.writePlain("Scopes: %s\n", strings.Join(status.Scopes, ", "))
		}
		if creds := r.ctrl.FederatedCredentials(model); creds != nil {
			r.writePlain("AWS access key: %s\n", creds.AccessKeyID)
		}
		return nil
	case idp.Challenged:
		return fmt.Errorf("%w: a new password is still required", shared.ErrChallengeOutstanding)
	default:
		return shared.ErrAuthFailed
	}
}

// Status attempts a silent restore and reports the resulting session status.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	st, effects := r.ctrl.Initialize(ctx, r.idpConfig())
	if errored, ok := st.(session.Errored); ok {
		return fmt.Errorf("initialization failed: %s", errored.Message)
	}

	st = r.drive(ctx, st, effects)
	model, _ := session.ModelOf(st)

	if cmd.Bool("json") {
		return r.writeJSON(statusSummary(model.Status), cmd.Bool("pretty"))
	}

	switch status := model.Status.(type) {
	case idp.LoggedIn:
		r.writePlain("✓ Signed in as %s\n", status.Subject)
		if len(status.Scopes) > 0 {
			r.writePlain("Scopes: %s\n", strings.Join(status.Scopes, ", "))
		}
		if creds := r.ctrl.FederatedCredentials(model); creds != nil {
			r.writePlain("AWS access key: %s\n", creds.AccessKeyID)
		}
	case idp.Failed:
		r.writePlain("✗ Not authorized\n")
	case idp.Challenged:
		r.writePlain("✗ Challenge outstanding: a new password is required\n")
	default:
		r.writePlain("✗ Not signed in\n")
	}
	return nil
}

// Logout revokes the current session and clears the cached refresh token.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	st, effects := r.ctrl.Initialize(ctx, r.idpConfig())
	if errored, ok := st.(session.Errored); ok {
		return fmt.Errorf("initialization failed: %s", errored.Message)
	}

	// Restore first so the provider sign-out has an access token to revoke.
	st = r.drive(ctx, st, effects)
	r.send(ctx, st, session.LogOut{})

	return r.writePlain("✓ Signed out\n")
}

// Setup writes a starter configuration file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Infof("created %s", path)
	return r.writePlain("✓ Wrote %s: fill in your app client id and region\n", path)
}

func (r *Runner) promptPassword(prompt string) (string, error) {
	r.writePlain("%s", prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input: read a single line instead of toggling terminal modes.
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	raw, err := term.ReadPassword(fd)
	r.writePlain("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
