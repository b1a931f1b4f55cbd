// =============================================================================
// eFactura Client - Verify Panel
// =============================================================================
//
// One identifier input and the snapshot it resolves to. Submissions run in
// the background; the panel re-reads the query model when one completes, so
// superseded responses never repaint the view.
//
// =============================================================================

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gracobjo/efactura/internal/gateway"
	"github.com/gracobjo/efactura/internal/verify"
)

// verifyDoneMsg signals that a verification submission finished. The panel
// reads the outcome from the query model, not from the message.
type verifyDoneMsg struct{}

type verifyPanel struct {
	input textinput.Model
	query *verify.Query
}

func newVerifyPanel(gw verify.Gateway) verifyPanel {
	in := textinput.New()
	in.Placeholder = "ID de la factura"
	in.CharLimit = 64
	in.Width = 30
	return verifyPanel{input: in, query: verify.NewQuery(gw)}
}

func (p verifyPanel) Focus() verifyPanel {
	p.input.Focus()
	return p
}

func (p verifyPanel) Blur() verifyPanel {
	p.input.Blur()
	return p
}

func (p verifyPanel) Update(msg tea.Msg) (verifyPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case verifyDoneMsg:
		return p, nil
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return p, p.submit(p.input.Value())
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// submit runs the lookup off the update loop. The query model itself
// discards superseded responses.
func (p verifyPanel) submit(id string) tea.Cmd {
	q := p.query
	return func() tea.Msg {
		q.Submit(context.Background(), id)
		return verifyDoneMsg{}
	}
}

func (p verifyPanel) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("ID de factura:"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	if p.query.InFlight() {
		b.WriteString("\nVerificando...\n")
		return b.String()
	}
	if msg := p.query.Err(); msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg) + "\n")
		return b.String()
	}
	if snap, ok := p.query.Result(); ok {
		b.WriteString("\n" + successStyle.Render("Información de la Factura") + "\n")
		b.WriteString(renderSnapshot(snap))
	}
	return b.String()
}

func renderSnapshot(snap *gateway.Snapshot) string {
	rows := [][2]string{
		{"Número", snap.Number},
		{"Fecha", snap.Date},
		{"Cliente", snap.Customer.Name},
		{"Identificación", snap.Customer.TaxID},
		{"Total", snap.Total},
		{"IVA", snap.Tax},
		{"Total con IVA", snap.TotalWithTax},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-15s %s\n", r[0]+":", r[1]))
	}
	return b.String()
}
