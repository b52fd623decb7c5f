package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/mossriver/poolside/internal/idp"
	"github.com/mossriver/poolside/internal/session"
)

// View renders the UI as a function of the current session state.
func (m *Model) View() string {
	if st, ok := m.state.(session.Errored); ok {
		body := styles.err.Render(fmt.Sprintf("Initialization failed: %s", st.Message))
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	model, _ := session.ModelOf(m.state)
	switch session.ModeFor(model.Status) {
	case session.ModeLoginForm:
		return m.renderLogin()
	case session.ModeNotAuthorized:
		return m.renderNotAuthorized()
	case session.ModePanel:
		return m.renderPanel(model)
	case session.ModeNewPasswordForm:
		return m.renderNewPassword(model)
	default:
		return ""
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")
	form := fmt.Sprintf("%s\n%s", m.username.View(), m.password.View())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.next, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, form, helpView)
}

func (m *Model) renderNotAuthorized() string {
	title := styles.err.Render("✗ Not authorized")
	body := "The identity provider rejected the sign-in."
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderPanel(model session.Model) string {
	title := styles.ok.Render("✓ Signed in")

	var info strings.Builder
	subject, scopes := panelIdentity(model)
	fmt.Fprintf(&info, "\nSubject: %s\n", subject)
	if len(scopes) > 0 {
		fmt.Fprintf(&info, "Scopes: %s\n", strings.Join(scopes, ", "))
	}

	if creds := m.ctrl.FederatedCredentials(model); creds != nil {
		fmt.Fprintf(&info, "\nAWS access key: %s", creds.AccessKeyID)
		if !creds.Expiration.IsZero() {
			fmt.Fprintf(&info, " (expires %s)", creds.Expiration.Format("15:04:05 MST"))
		}
		info.WriteString("\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.refresh, m.keys.logout, m.keys.quit})
	return fmt.Sprintf("%s%s\n%s", title, info.String(), helpView)
}

func (m *Model) renderNewPassword(model session.Model) string {
	title := styles.title.Render("New password required")
	form := fmt.Sprintf("%s\n%s", m.password.View(), m.confirm.View())

	var hint string
	if model.PasswordVerify != "" && model.Password != model.PasswordVerify {
		hint = "\n" + styles.warn.Render("Passwords do not match")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.next, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, form, hint, helpView)
}

func panelIdentity(model session.Model) (string, []string) {
	if status, ok := model.Status.(idp.LoggedIn); ok {
		return status.Subject, status.Scopes
	}
	return "", nil
}
