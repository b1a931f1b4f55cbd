// =============================================================================
// eFactura Client - Tab Navigation State Machine
// =============================================================================
//
// Navigation between the client's views (create, verify, migrate) is a small
// finite-state machine, kept independent of any rendering concern so it can
// be exercised without a UI.
//
// STATES:
//   One state per registered view. Exactly one tab is active at any time and
//   the active tab is always a member of the fixed, ordered set. The initial
//   state is the first tab.
//
// TRANSITIONS:
//   Activate(tab) - direct jump, always legal for a registered tab
//   Next / Prev   - neighbors in the fixed order, wrapping at both ends
//   First / Last  - edges of the fixed order, idempotent
//
// KEYBOARD PROTOCOL:
//   Right arrow -> Next, Left arrow -> Prev, Home -> First, End -> Last.
//   Every transition returns the newly active tab so the caller can move
//   focus to its control: focus follows selection, otherwise a screen-reader
//   user loses orientation after a keyboard switch. Inactive panels keep
//   their state; they are hidden, not destroyed.
//
// =============================================================================

package tabs

// Tab identifies one registered view.
type Tab string

// The fixed tab set, in navigation order.
const (
	Create  Tab = "crear"
	Verify  Tab = "verificar"
	Migrate Tab = "migrar"
)

// Title returns the human-readable tab title.
func (t Tab) Title() string {
	switch t {
	case Create:
		return "Crear Factura"
	case Verify:
		return "Verificar Factura"
	case Migrate:
		return "Migrar Facturas"
	}
	return string(t)
}

// Key is a navigation key within the tab region.
type Key int

const (
	KeyRight Key = iota
	KeyLeft
	KeyHome
	KeyEnd
)

// Machine tracks which tab is active.
type Machine struct {
	order  []Tab
	active int
}

// New builds a machine over the given tab order. With no arguments it uses
// the default set (create, verify, migrate). The first tab starts active.
func New(order ...Tab) *Machine {
	if len(order) == 0 {
		order = []Tab{Create, Verify, Migrate}
	}
	return &Machine{order: order}
}

// Tabs returns the fixed tab order.
func (m *Machine) Tabs() []Tab {
	out := make([]Tab, len(m.order))
	copy(out, m.order)
	return out
}

// Active returns the currently active tab.
func (m *Machine) Active() Tab {
	return m.order[m.active]
}

// Index returns the position of the active tab in the fixed order.
func (m *Machine) Index() int {
	return m.active
}

// IsActive reports whether the given tab is the active one.
func (m *Machine) IsActive(t Tab) bool {
	return m.Active() == t
}

// Activate jumps directly to the given tab. It reports whether the tab is a
// member of the fixed set; activating an unknown tab changes nothing.
func (m *Machine) Activate(t Tab) bool {
	for i, candidate := range m.order {
		if candidate == t {
			m.active = i
			return true
		}
	}
	return false
}

// Next activates the following tab, wrapping from last to first, and
// returns the tab that must now receive focus.
func (m *Machine) Next() Tab {
	m.active = (m.active + 1) % len(m.order)
	return m.Active()
}

// Prev activates the preceding tab, wrapping from first to last, and
// returns the tab that must now receive focus.
func (m *Machine) Prev() Tab {
	m.active = (m.active - 1 + len(m.order)) % len(m.order)
	return m.Active()
}

// First activates the first tab in the fixed order.
func (m *Machine) First() Tab {
	m.active = 0
	return m.Active()
}

// Last activates the last tab in the fixed order.
func (m *Machine) Last() Tab {
	m.active = len(m.order) - 1
	return m.Active()
}

// HandleKey applies the keyboard protocol. It returns the tab to focus and
// whether the key belonged to the protocol at all; unknown keys leave the
// machine untouched so the caller can route them to the active panel.
func (m *Machine) HandleKey(k Key) (Tab, bool) {
	switch k {
	case KeyRight:
		return m.Next(), true
	case KeyLeft:
		return m.Prev(), true
	case KeyHome:
		return m.First(), true
	case KeyEnd:
		return m.Last(), true
	}
	return m.Active(), false
}
