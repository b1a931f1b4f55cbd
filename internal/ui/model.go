// =============================================================================
// eFactura Client - Terminal UI Root Model
// =============================================================================
//
// Tabbed terminal interface over the same models the CLI commands use. The
// screen splits into two focus regions:
//
//   NAV REGION   - the tab strip. Left/right arrows move between tabs
//                  (wrapping), Home/End jump to the edges. Every switch
//                  focuses the newly active panel's first control, so focus
//                  follows selection. Enter, Tab or the down arrow drop into
//                  the active panel.
//   PANEL REGION - the active tab's form. Esc returns to the nav region.
//
// Panels are hidden, not destroyed: switching tabs never discards a draft,
// a verification result or a migration batch.
//
// =============================================================================

package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gracobjo/efactura/internal/config"
	"github.com/gracobjo/efactura/internal/gateway"
	"github.com/gracobjo/efactura/internal/invoice"
	"github.com/gracobjo/efactura/internal/tabs"
)

// region is the part of the screen holding keyboard focus.
type region int

const (
	regionNav region = iota
	regionPanel
)

// Gateway is the full client surface the UI depends on.
type Gateway interface {
	CreateInvoice(ctx context.Context, payload invoice.Payload) ([]byte, error)
	Verify(ctx context.Context, id string) (*gateway.Snapshot, error)
	Migrate(ctx context.Context, paths []string) (*gateway.MigrationResponse, error)
	DownloadPDF(ctx context.Context, id string) ([]byte, error)
}

// Model is the root bubbletea model.
type Model struct {
	machine *tabs.Machine
	focus   region

	create  createPanel
	verify  verifyPanel
	migrate migratePanel

	width int
}

// New builds the root model over the given configuration and gateway.
func New(cfg *config.Config, gw Gateway) Model {
	return Model{
		machine: tabs.New(),
		create:  newCreatePanel(gw, cfg.DownloadDir),
		verify:  newVerifyPanel(gw),
		migrate: newMigratePanel(gw, cfg.DownloadDir),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == regionNav {
			return m.updateNav(msg)
		}
		if msg.String() == "esc" {
			m.focus = regionNav
			m = m.blurActive()
			return m, nil
		}
	}
	return m.updatePanel(msg)
}

// updateNav applies the tab keyboard protocol. Any tab switch re-focuses the
// new panel so a later Enter lands on its first control.
func (m Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "right":
		m.machine.HandleKey(tabs.KeyRight)
	case "left":
		m.machine.HandleKey(tabs.KeyLeft)
	case "home":
		m.machine.HandleKey(tabs.KeyHome)
	case "end":
		m.machine.HandleKey(tabs.KeyEnd)
	case "enter", "tab", "down":
		m.focus = regionPanel
		m = m.focusActive()
	}
	return m, nil
}

// updatePanel routes a message to the active panel. Completion messages are
// delivered regardless of focus so background work lands even while the
// user sits in another tab.
func (m Model) updatePanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case createDoneMsg:
		m.create, cmd = m.create.Update(msg)
		return m, cmd
	case verifyDoneMsg:
		m.verify, cmd = m.verify.Update(msg)
		return m, cmd
	case migrateDoneMsg, downloadDoneMsg:
		m.migrate, cmd = m.migrate.Update(msg)
		return m, cmd
	}

	switch m.machine.Active() {
	case tabs.Create:
		m.create, cmd = m.create.Update(msg)
	case tabs.Verify:
		m.verify, cmd = m.verify.Update(msg)
	case tabs.Migrate:
		m.migrate, cmd = m.migrate.Update(msg)
	}
	return m, cmd
}

func (m Model) focusActive() Model {
	switch m.machine.Active() {
	case tabs.Create:
		m.create = m.create.Focus()
	case tabs.Verify:
		m.verify = m.verify.Focus()
	case tabs.Migrate:
		m.migrate = m.migrate.Focus()
	}
	return m
}

func (m Model) blurActive() Model {
	m.create = m.create.Blur()
	m.verify = m.verify.Blur()
	m.migrate = m.migrate.Blur()
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("eFactura - Facturación Electrónica"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	var panel string
	switch m.machine.Active() {
	case tabs.Create:
		panel = m.create.View()
	case tabs.Verify:
		panel = m.verify.View()
	case tabs.Migrate:
		panel = m.migrate.View()
	}
	b.WriteString(panelStyle.Render(panel))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, 3)
	for _, t := range m.machine.Tabs() {
		if m.machine.IsActive(t) {
			parts = append(parts, activeTabStyle.Render(t.Title()))
			continue
		}
		parts = append(parts, inactiveTabStyle.Render(t.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) helpLine() string {
	if m.focus == regionNav {
		return "←/→ cambiar pestaña · inicio/fin saltar · enter entrar · q salir"
	}
	switch m.machine.Active() {
	case tabs.Create:
		return "↑/↓ campo · ctrl+n añadir línea · ctrl+x quitar línea · ctrl+s crear · esc pestañas"
	case tabs.Verify:
		return "enter verificar · esc pestañas"
	case tabs.Migrate:
		return "enter migrar · ctrl+d descargar PDFs · esc pestañas"
	}
	return "esc pestañas"
}

// ActiveTab exposes the active tab for the command layer and tests.
func (m Model) ActiveTab() tabs.Tab {
	return m.machine.Active()
}
