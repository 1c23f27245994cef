package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/omicreativedev/tunepeep/internal/auth"
	"github.com/omicreativedev/tunepeep/internal/formatter"
	"github.com/omicreativedev/tunepeep/internal/guard"
	"github.com/omicreativedev/tunepeep/internal/models"
	"github.com/omicreativedev/tunepeep/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	CatalogView
	DetailView
	LoginView
	ReviewView
	DeniedView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	svc      services.Service
	state    *auth.State
	verifier *auth.Verifier

	view   ViewState
	width  int
	height int

	catalogList list.Model
	musics      []models.Music
	selected    *models.Music

	// pendingTarget is the destination refused for want of a session,
	// resumed after a successful sign-in.
	pendingTarget string

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusIndex    int
	reviewInput   textinput.Model

	spin   spinner.Model
	help   help.Model
	keys   keyMap
	status string
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, svc services.Service, state *auth.State, verifier *auth.Verifier) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	review := textinput.New()
	review.Placeholder = "review"
	review.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:           ctx,
		svc:           svc,
		state:         state,
		verifier:      verifier,
		view:          LoadingView,
		emailInput:    email,
		passwordInput: password,
		reviewInput:   review,
		spin:          sp,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init starts the spinner and the one-shot session check.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.runStartupCheck())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.catalogList.Width() == 0 {
			m.catalogList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		case ReviewView:
			return m.handleReviewKeys(msg)
		case DeniedView:
			return m.handleDeniedKeys(msg)
		}

	case sessionResolvedMsg:
		m.view = CatalogView
		if sess := msg.snapshot.Session; sess != nil {
			m.status = fmt.Sprintf("Signed in as %s (%s)", sess.FirstName, sess.Role)
		} else {
			m.status = "Browsing anonymously"
		}
		return m, m.fetchCatalog()

	case catalogFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.musics = msg.musics
		items := make([]list.Item, len(msg.musics))
		for i, entry := range msg.musics {
			items[i] = musicItem{music: entry}
		}
		m.catalogList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.catalogList.Title = "TunePeep Catalog"
		m.catalogList.SetSize(m.width-4, m.height-8)
		return m, nil

	case musicFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = CatalogView
			return m, nil
		}
		m.err = nil
		m.selected = msg.music
		m.view = DetailView
		return m, nil

	case loginResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Signed in as %s (%s)", msg.session.FirstName, msg.session.Role)
		m.passwordInput.SetValue("")
		return m.resumePending()

	case loggedOutMsg:
		m.status = "Browsing anonymously"
		m.selected = nil
		m.view = CatalogView
		return m, m.fetchCatalog()

	case reviewSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.selected = msg.music
		m.view = DetailView
		return m, m.fetchCatalog()

	case entryDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.selected = nil
		m.view = CatalogView
		return m, m.fetchCatalog()
	}

	if m.view == CatalogView {
		var cmd tea.Cmd
		m.catalogList, cmd = m.catalogList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("\n %s Checking session...\n", m.spin.View())
	case CatalogView:
		return m.renderCatalog()
	case DetailView:
		return m.renderDetail()
	case LoginView:
		return m.renderLogin()
	case ReviewView:
		return m.renderReview()
	case DeniedView:
		return m.renderDenied()
	default:
		return ""
	}
}

func (m *Model) isAdmin() bool {
	sess := m.state.Session()
	return sess != nil && sess.IsAdmin()
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.login):
		if m.state.Session() == nil {
			m.pendingTarget = ""
			m.view = LoginView
		}
		return m, nil
	case key.Matches(msg, m.keys.logout):
		if m.state.Session() != nil {
			return m, m.logout()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.catalogList.SelectedItem().(musicItem); ok {
			return m.openDetail(item.music.MusicID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
		return m, nil
	case key.Matches(msg, m.keys.review):
		return m.openReview()
	case key.Matches(msg, m.keys.delete):
		if m.isAdmin() && m.selected != nil {
			return m, m.deleteEntry(m.selected.MusicID)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.pendingTarget = ""
		m.err = nil
		m.view = CatalogView
		return m, nil
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		if m.focusIndex == 0 {
			m.emailInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		return m, m.login(m.emailInput.Value(), m.passwordInput.Value())
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DetailView
		return m, nil
	case "enter":
		if m.selected != nil {
			return m, m.saveReview(m.selected.MusicID, m.reviewInput.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.reviewInput, cmd = m.reviewInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDeniedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CatalogView
		return m, nil
	}
	return m, nil
}

// openDetail runs the route guard for the detail view. Anonymous visitors
// land on the login form with the destination preserved.
func (m *Model) openDetail(musicID string) (tea.Model, tea.Cmd) {
	target := "/music/" + musicID

	switch d := guard.Decide(m.state.Snapshot(), target); d.State {
	case guard.Pending:
		m.view = LoadingView
		return m, m.spin.Tick
	case guard.Authorized:
		return m, m.fetchMusic(musicID)
	default:
		m.pendingTarget = d.From
		m.view = LoginView
		return m, nil
	}
}

// openReview runs the role gate for the review editor. A signed-in account
// without the ADMIN role lands on the denied view, not the login form.
func (m *Model) openReview() (tea.Model, tea.Cmd) {
	if m.selected == nil {
		return m, nil
	}
	target := "/review/" + m.selected.MusicID

	d := guard.RequireRole(m.state.Snapshot(), auth.RoleAdmin, target)
	switch {
	case d.State == guard.Authorized:
		m.reviewInput.SetValue(m.selected.AdminReview)
		m.reviewInput.Focus()
		m.view = ReviewView
	case d.RedirectTo == guard.DeniedRoute:
		m.view = DeniedView
	default:
		m.pendingTarget = d.From
		m.view = LoginView
	}
	return m, nil
}

// resumePending re-runs the guard for the destination that triggered the
// sign-in. A review target may still be refused on role grounds.
func (m *Model) resumePending() (tea.Model, tea.Cmd) {
	target := m.pendingTarget
	m.pendingTarget = ""

	if id, ok := strings.CutPrefix(target, "/music/"); ok {
		return m.openDetail(id)
	}
	if _, ok := strings.CutPrefix(target, "/review/"); ok {
		if m.selected == nil {
			m.view = CatalogView
			return m, m.fetchCatalog()
		}
		return m.openReview()
	}

	m.view = CatalogView
	return m, m.fetchCatalog()
}

func (m *Model) runStartupCheck() tea.Cmd {
	return func() tea.Msg {
		m.verifier.Run(m.ctx)
		return sessionResolvedMsg{snapshot: m.state.Snapshot()}
	}
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		musics, err := m.svc.Musics(m.ctx)
		return catalogFetchedMsg{musics: musics, err: err}
	}
}

func (m *Model) fetchMusic(musicID string) tea.Cmd {
	return func() tea.Msg {
		music, err := m.svc.Music(m.ctx, musicID)
		return musicFetchedMsg{music: music, err: err}
	}
}

func (m *Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		sess, err := m.svc.Login(m.ctx, email, password)
		return loginResultMsg{session: sess, err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		_ = m.svc.Logout(m.ctx)
		return loggedOutMsg{}
	}
}

func (m *Model) saveReview(musicID, review string) tea.Cmd {
	return func() tea.Msg {
		// Re-checked at submission: the session may have been cleared
		// while the editor was open.
		if err := guard.CanSubmit(m.state.Session(), auth.RoleAdmin); err != nil {
			return reviewSavedMsg{err: err}
		}
		music, err := m.svc.UpdateReview(m.ctx, musicID, review)
		return reviewSavedMsg{music: music, err: err}
	}
}

func (m *Model) deleteEntry(musicID string) tea.Cmd {
	return func() tea.Msg {
		if err := guard.CanSubmit(m.state.Session(), auth.RoleAdmin); err != nil {
			return entryDeletedMsg{err: err}
		}
		err := m.svc.DeleteMusic(m.ctx, musicID)
		return entryDeletedMsg{musicID: musicID, err: err}
	}
}

func (m *Model) renderCatalog() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	if m.state.Session() == nil {
		helpKeys = append(helpKeys, m.keys.login)
	} else {
		helpKeys = append(helpKeys, m.keys.logout)
	}
	helpView := m.help.ShortHelpView(helpKeys)

	header := styles.help.Render(m.status)
	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return fmt.Sprintf("%s%s\n%s\n\n%s", header, errLine, m.catalogList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("No entry selected")
	}

	title := styles.title.Render(m.selected.Title)
	body := formatter.RenderDetail(*m.selected)

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	if m.isAdmin() {
		// Admin affordances are invisible to everyone else.
		helpKeys = append(helpKeys, m.keys.review, m.keys.delete)
	}
	helpView := m.help.ShortHelpView(helpKeys)

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	return fmt.Sprintf("%s\n%s%s\n%s", title, errLine, body, helpView)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in to TunePeep")

	var note string
	if m.pendingTarget != "" {
		note = styles.help.Render("Sign in to continue where you left off") + "\n\n"
	}

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	form := fmt.Sprintf("%s\n%s", m.emailInput.View(), m.passwordInput.View())
	hint := styles.help.Render("tab to switch • enter to submit • esc to cancel")

	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, note, errLine, form, hint)
}

func (m *Model) renderReview() string {
	title := styles.title.Render(fmt.Sprintf("Review: %s", m.selected.Title))

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	hint := styles.help.Render("enter to save • esc to cancel")
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, errLine, m.reviewInput.View(), hint)
}

func (m *Model) renderDenied() string {
	title := styles.err.Render("Not authorized")
	body := "This area needs the ADMIN role.\nYour account is signed in but does not have it."
	hint := styles.help.Render("esc to go back • q to quit")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, hint)
}
