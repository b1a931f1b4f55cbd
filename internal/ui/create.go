// =============================================================================
// eFactura Client - Create Panel
// =============================================================================
//
// Invoice composition form: customer fields plus a growable list of line
// items. Totals are recomputed on every keystroke so the user always sees
// the current subtotal, tax and total. The draft survives tab switches; it
// only resets after a successful submission.
//
// KEYS (inside the panel):
//   up/down  move between fields
//   ctrl+n   add a line item
//   ctrl+x   remove the line item under the cursor
//   ctrl+s   validate and submit
//
// =============================================================================

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/gracobjo/efactura/internal/invoice"
	"github.com/gracobjo/efactura/internal/validation"
	"github.com/gracobjo/efactura/pkg/fileutil"
)

// createGateway is the single operation the panel needs.
type createGateway interface {
	CreateInvoice(ctx context.Context, payload invoice.Payload) ([]byte, error)
}

// createDoneMsg carries the outcome of a submission.
type createDoneMsg struct {
	path   string
	errMsg string
}

// Customer fields occupy the first three focus positions; line items take
// three positions each after that.
const customerFields = 3

type createPanel struct {
	gw          createGateway
	downloadDir string

	draft  *invoice.Draft
	inputs []textinput.Model
	cursor int

	busy    bool
	errMsg  string
	lastPDF string
}

func newCreatePanel(gw createGateway, downloadDir string) createPanel {
	p := createPanel{
		gw:          gw,
		downloadDir: downloadDir,
		draft:       invoice.NewDraft(),
	}
	p.inputs = p.buildInputs()
	return p
}

// buildInputs lays out one input per field: customer name, address, tax ID,
// then description, quantity and unit price per line item.
func (p *createPanel) buildInputs() []textinput.Model {
	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		return in
	}

	inputs := []textinput.Model{
		mk("Nombre del cliente", 40),
		mk("Dirección", 40),
		mk("Identificación fiscal (NIF/CIF)", 20),
	}
	inputs[0].SetValue(p.draft.Customer.Name)
	inputs[1].SetValue(p.draft.Customer.Address)
	inputs[2].SetValue(p.draft.Customer.TaxID)

	for _, item := range p.draft.Items {
		desc := mk("Descripción", 32)
		desc.SetValue(item.Description)
		qty := mk("Cantidad", 8)
		qty.SetValue(fmt.Sprintf("%d", item.Quantity))
		price := mk("Precio", 12)
		if !item.UnitPrice.IsZero() {
			price.SetValue(item.UnitPrice.String())
		}
		inputs = append(inputs, desc, qty, price)
	}
	return inputs
}

func (p createPanel) Focus() createPanel {
	p.inputs[p.cursor].Focus()
	return p
}

func (p createPanel) Blur() createPanel {
	for i := range p.inputs {
		p.inputs[i].Blur()
	}
	return p
}

func (p createPanel) Update(msg tea.Msg) (createPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case createDoneMsg:
		p.busy = false
		p.errMsg = msg.errMsg
		if msg.errMsg == "" {
			p.lastPDF = msg.path
			p.draft.Reset()
			p.cursor = 0
			p.inputs = p.buildInputs()
			p = p.Focus()
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			return p.moveCursor(-1), nil
		case "down", "enter":
			return p.moveCursor(1), nil
		case "ctrl+n":
			p.syncDraft()
			p.draft.AddItem()
			p.inputs = p.buildInputs()
			p.cursor = customerFields + 3*(len(p.draft.Items)-1)
			return p.Focus(), nil
		case "ctrl+x":
			if item := p.itemUnderCursor(); item >= 0 {
				p.syncDraft()
				if p.draft.RemoveItem(item) {
					p.inputs = p.buildInputs()
					if p.cursor >= len(p.inputs) {
						p.cursor = len(p.inputs) - 1
					}
					return p.Focus(), nil
				}
			}
			return p, nil
		case "ctrl+s":
			if p.busy {
				return p, nil
			}
			return p.submit()
		}
	}

	var cmd tea.Cmd
	p.inputs[p.cursor], cmd = p.inputs[p.cursor].Update(msg)
	p.syncDraft()
	return p, cmd
}

func (p createPanel) moveCursor(delta int) createPanel {
	p.inputs[p.cursor].Blur()
	p.cursor = (p.cursor + delta + len(p.inputs)) % len(p.inputs)
	p.inputs[p.cursor].Focus()
	return p
}

// itemUnderCursor returns the line-item index the cursor sits on, or -1 when
// it is on a customer field.
func (p createPanel) itemUnderCursor() int {
	if p.cursor < customerFields {
		return -1
	}
	return (p.cursor - customerFields) / 3
}

// syncDraft copies every input value into the draft. Quantity and price
// parse errors leave the previous draft value in place; validation catches
// them at submission time through the rendered totals.
func (p *createPanel) syncDraft() {
	p.draft.SetCustomerField(invoice.CustomerName, p.inputs[0].Value())
	p.draft.SetCustomerField(invoice.CustomerAddr, p.inputs[1].Value())
	p.draft.SetCustomerField(invoice.CustomerTaxID, p.inputs[2].Value())

	for i := range p.draft.Items {
		base := customerFields + 3*i
		p.draft.SetItemDescription(i, p.inputs[base].Value())
		var qty int
		if _, err := fmt.Sscanf(strings.TrimSpace(p.inputs[base+1].Value()), "%d", &qty); err == nil {
			p.draft.SetItemQuantity(i, qty)
		}
		if price, err := decimal.NewFromString(strings.TrimSpace(p.inputs[base+2].Value())); err == nil {
			p.draft.SetItemPrice(i, price)
		}
	}
}

func (p createPanel) submit() (createPanel, tea.Cmd) {
	p.syncDraft()
	if err := validation.ValidateDraft(p.draft); err != nil {
		p.errMsg = err.Error()
		return p, nil
	}

	p.busy = true
	p.errMsg = ""
	p.lastPDF = ""

	gw := p.gw
	dir := p.downloadDir
	payload := p.draft.Payload()
	return p, func() tea.Msg {
		pdf, err := gw.CreateInvoice(context.Background(), payload)
		if err != nil {
			return createDoneMsg{errMsg: err.Error()}
		}
		path, err := fileutil.SaveArtifact(dir, "factura.pdf", pdf)
		if err != nil {
			return createDoneMsg{errMsg: err.Error()}
		}
		return createDoneMsg{path: path}
	}
}

func (p createPanel) View() string {
	var b strings.Builder

	labels := []string{"Nombre del cliente", "Dirección", "Identificación"}
	for i, label := range labels {
		b.WriteString(p.renderField(i, label))
	}

	b.WriteString("\n" + labelStyle.Render("Líneas:") + "\n")
	for i := range p.draft.Items {
		base := customerFields + 3*i
		b.WriteString(fmt.Sprintf("  %d. %s  %s  %s\n",
			i+1,
			p.inputs[base].View(),
			p.inputs[base+1].View(),
			p.inputs[base+2].View(),
		))
	}

	totals := p.draft.ComputeTotals()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Subtotal:  %s €\n", totals.Subtotal.StringFixed(2)))
	b.WriteString(fmt.Sprintf("  IVA (21%%): %s €\n", totals.Tax.StringFixed(2)))
	b.WriteString(fmt.Sprintf("  Total:     %s €\n", totals.Total.StringFixed(2)))

	if p.busy {
		b.WriteString("\nCreando factura...\n")
	}
	if p.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(p.errMsg) + "\n")
	}
	if p.lastPDF != "" {
		b.WriteString("\n" + successStyle.Render("¡Factura creada exitosamente! PDF: "+p.lastPDF) + "\n")
	}
	return b.String()
}

func (p createPanel) renderField(i int, label string) string {
	style := labelStyle
	if i == p.cursor {
		style = focusedLabelStyle
	}
	return fmt.Sprintf("%s\n%s\n", style.Render(label+":"), p.inputs[i].View())
}
