// =============================================================================
// eFactura Client - Migrate Panel
// =============================================================================
//
// Batch migration of legacy PDF invoices. The user points the panel at files
// or a directory; the selection travels as one batch. Results keep per-entry
// download state so one failed artifact never hides the rest.
//
// KEYS (inside the panel):
//   enter   submit the current selection
//   ctrl+d  download the regenerated PDF of every migrated invoice
//
// =============================================================================

package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gracobjo/efactura/internal/migrate"
	"github.com/gracobjo/efactura/pkg/fileutil"
)

// migrateDoneMsg signals that a batch submission finished.
type migrateDoneMsg struct{}

// downloadDoneMsg signals that one artifact download finished.
type downloadDoneMsg struct{ index int }

type migratePanel struct {
	input       textinput.Model
	batch       *migrate.Batch
	downloadDir string
	busy        bool
	downloading int
}

func newMigratePanel(gw migrate.Gateway, downloadDir string) migratePanel {
	in := textinput.New()
	in.Placeholder = "Archivos PDF o directorio"
	in.CharLimit = 512
	in.Width = 48
	return migratePanel{
		input:       in,
		batch:       migrate.NewBatch(gw),
		downloadDir: downloadDir,
	}
}

func (p migratePanel) Focus() migratePanel {
	p.input.Focus()
	return p
}

func (p migratePanel) Blur() migratePanel {
	p.input.Blur()
	return p
}

func (p migratePanel) Update(msg tea.Msg) (migratePanel, tea.Cmd) {
	switch msg := msg.(type) {
	case migrateDoneMsg:
		p.busy = false
		return p, nil
	case downloadDoneMsg:
		p.downloading--
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if p.busy {
				return p, nil
			}
			p.batch.SelectFiles(expandSelection(p.input.Value()))
			p.busy = true
			return p, p.submit()
		case "ctrl+d":
			return p.downloadAll()
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// expandSelection turns the raw input into file paths. A single path that
// names a directory is expanded to the PDFs inside it.
func expandSelection(raw string) []string {
	fields := strings.Fields(raw)
	if len(fields) == 1 {
		if info, err := os.Stat(fields[0]); err == nil && info.IsDir() {
			if found, err := fileutil.DiscoverPDFs(fields[0]); err == nil {
				return found
			}
		}
	}
	return fields
}

func (p migratePanel) submit() tea.Cmd {
	b := p.batch
	return func() tea.Msg {
		b.Submit(context.Background())
		return migrateDoneMsg{}
	}
}

// downloadAll launches one download per migrated invoice. Each outcome lands
// on its own entry.
func (p migratePanel) downloadAll() (migratePanel, tea.Cmd) {
	results := p.batch.Results()
	if len(results) == 0 {
		return p, nil
	}
	cmds := make([]tea.Cmd, 0, len(results))
	for i := range results {
		if results[i].SavedPath != "" {
			continue
		}
		idx := i
		b := p.batch
		dir := p.downloadDir
		p.downloading++
		cmds = append(cmds, func() tea.Msg {
			b.DownloadResult(context.Background(), idx, dir)
			return downloadDoneMsg{index: idx}
		})
	}
	return p, tea.Batch(cmds...)
}

func (p migratePanel) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Selección:"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")

	if selected := p.batch.Selected(); len(selected) > 0 {
		b.WriteString(fmt.Sprintf("\n%d archivo(s) seleccionados\n", len(selected)))
	}
	if p.busy {
		b.WriteString("\nMigrando...\n")
		return b.String()
	}

	if msg := p.batch.Message(); msg != "" {
		style := successStyle
		if len(p.batch.Results()) == 0 {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(msg) + "\n")
	}

	for _, r := range p.batch.Results() {
		b.WriteString(fmt.Sprintf("  ✓ %s → %s (total %s)\n", r.SourceName, r.InvoiceNumber, r.Total))
		switch {
		case r.DownloadErr != "":
			b.WriteString("    " + errorStyle.Render("✗ "+r.DownloadErr) + "\n")
		case r.SavedPath != "":
			b.WriteString("    PDF: " + r.SavedPath + "\n")
		}
	}
	if p.downloading > 0 {
		b.WriteString(fmt.Sprintf("\nDescargando %d PDF(s)...\n", p.downloading))
	}
	return b.String()
}
