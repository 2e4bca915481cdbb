package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gates"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
	focusInputParam
	focusSelectControls
	focusEditGate
	focusEditParam
	focusEditTarget
	focusEditControl
)

const defaultQubits = 2

// Model represents the TUI application state.
type Model struct {
	prog        Program // the ordered program is the single source of truth
	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	qasmErr     string // why the editor text was not applied
	statusMsg   string // transient status message (e.g. save confirmation)
	saveFile    string

	// Menu state
	menuCat  int
	menuItem int

	// Target-selection state (for multi-qubit gates)
	pendingGate   gates.Kind
	targetQubit   int
	paramInput    string
	pendingAngle  *float64
	controlQubits []int

	// Edit gate state
	editGate     *circuit.GateSpec // working copy of the gate being edited
	editMenuIdx  int               // selected option in edit menu
	editOrigStep int               // step of the gate being edited
	editField    string            // wire field being re-assigned
}

func initialModel() Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		prog:       Program{NumQubits: defaultQubits},
		qasmEditor: ta,
		focus:      focusCircuit,
		saveFile:   "circuit.qasm",
	}

	m.syncFromProgram()
	return m
}

// syncFromProgram rewrites the QASM panel from the program.
func (m *Model) syncFromProgram() {
	c, err := m.prog.Compile()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	qasm := c.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.qasmErr = ""
}

// commit replaces the program with next if it validates. On failure the
// validation message becomes the status line and nothing changes.
func (m *Model) commit(next Program) bool {
	if _, err := next.Compile(); err != nil {
		m.statusMsg = err.Error()
		return false
	}
	m.prog = next
	m.clampCursor()
	m.syncFromProgram()
	return true
}

func (m *Model) clampCursor() {
	m.cursorQubit = min(m.cursorQubit, m.prog.NumQubits-1)
	m.cursorStep = min(m.cursorStep, m.prog.Len())
}

// parseQASMInput applies the editor text once it parses and validates.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm

	req, err := circuit.ParseQASM(qasm)
	if err == nil {
		_, err = circuit.Validate(req)
	}
	if err != nil {
		m.qasmErr = err.Error()
		return
	}

	m.qasmErr = ""
	m.prog = Program{NumQubits: req.QubitCount, Gates: req.Program}
	m.clampCursor()
}

// placeGate places a gate on the circuit at the cursor position.
// targetQ is the target qubit for multi-qubit gates (-1 for single-qubit).
// Returns true if placement succeeded, false if the result would not validate.
func (m *Model) placeGate(kind gates.Kind, targetQ int) bool {
	spec := circuit.GateSpec{Gate: kind.String()}
	switch kind {
	case gates.CX:
		spec.Control = intRef(m.cursorQubit)
		spec.Target = intRef(targetQ)
	case gates.CCX:
		spec.Control1 = intRef(m.cursorQubit)
		if len(m.controlQubits) > 0 {
			spec.Control2 = intRef(m.controlQubits[0])
		}
		spec.Target = intRef(targetQ)
	default:
		spec.Target = intRef(m.cursorQubit)
		if kind.IsRotation() {
			angle := 0.0
			if m.pendingAngle != nil {
				angle = *m.pendingAngle
			}
			spec.Angle = floatRef(angle)
		}
	}

	step := min(m.cursorStep, m.prog.Len())
	ok := m.commit(m.prog.withGate(step, spec))

	// Clear temporary state
	m.paramInput = ""
	m.pendingAngle = nil
	m.controlQubits = nil
	m.pendingGate = gates.Invalid

	if ok {
		m.cursorStep = step + 1
	}
	return ok
}

// save writes the current program as QASM.
func (m *Model) save() {
	c, err := m.prog.Compile()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	if err := os.WriteFile(m.saveFile, []byte(c.ToQASM()), 0644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
	} else {
		m.statusMsg = "Saved " + m.saveFile
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		editorH := max(circH/2-6, 4)
		m.qasmEditor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.commit(Program{NumQubits: m.prog.NumQubits})
				m.cursorStep = 0
			case "ctrl+s":
				m.save()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.prog.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				if m.cursorStep < m.prog.Len() {
					m.cursorStep++
				}
			case "+", "=":
				m.commit(m.prog.withQubits(m.prog.NumQubits + 1))
			case "-":
				if m.prog.NumQubits > 1 {
					m.commit(m.prog.withQubits(m.prog.NumQubits - 1))
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.commit(m.prog.withoutStep(m.cursorStep))
			case "e":
				if g := m.prog.GateAt(m.cursorStep); g != nil {
					gate := *g
					m.editGate = &gate
					m.editMenuIdx = 0
					m.editOrigStep = m.cursorStep
					m.focus = focusEditGate
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := gateMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pendingGate = item.kind

				if item.needsParams() {
					m.paramInput = ""
					m.focus = focusInputParam
					break
				}

				if item.kind == gates.CCX {
					if m.prog.NumQubits < 3 {
						m.statusMsg = "Toffoli needs at least 3 qubits"
						break
					}
					m.controlQubits = nil
					m.focus = focusSelectControls
					m.targetQubit = m.firstFreeWire(m.cursorQubit)
					break
				}

				if item.needsTarget() {
					if m.prog.NumQubits < 2 {
						m.statusMsg = "CNOT needs at least 2 qubits"
						break
					}
					m.focus = focusSelectTarget
					m.targetQubit = m.firstFreeWire(m.cursorQubit)
				} else {
					if m.placeGate(item.kind, -1) {
						m.focus = focusCircuit
					}
				}
			}

		case focusSelectTarget:
			taken := append([]int{m.cursorQubit}, m.controlQubits...)
			switch key {
			case "esc":
				m.cancelPending()
			case "up", "k":
				m.targetQubit = m.nextFreeWire(m.targetQubit, -1, taken...)
			case "down", "j":
				m.targetQubit = m.nextFreeWire(m.targetQubit, 1, taken...)
			case "enter":
				m.placeGate(m.pendingGate, m.targetQubit)
				m.focus = focusCircuit
			}

		case focusSelectControls:
			switch key {
			case "esc":
				m.cancelPending()
			case "up", "k":
				m.targetQubit = m.nextFreeWire(m.targetQubit, -1, m.cursorQubit)
			case "down", "j":
				m.targetQubit = m.nextFreeWire(m.targetQubit, 1, m.cursorQubit)
			case "enter":
				m.controlQubits = append(m.controlQubits, m.targetQubit)
				m.focus = focusSelectTarget
				m.targetQubit = m.firstFreeWire(append([]int{m.cursorQubit}, m.controlQubits...)...)
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.cancelPending()
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				angle, ok := parseAngleInput(m.paramInput)
				if !ok {
					m.statusMsg = "Invalid angle: use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				m.pendingAngle = &angle
				m.placeGate(m.pendingGate, -1)
				m.focus = focusCircuit
			default:
				if isAngleKey(key) {
					m.paramInput += key
				}
			}

		case focusEditGate:
			if m.editGate == nil {
				m.focus = focusCircuit
				break
			}
			editOptions := m.getEditOptions()
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.editGate = nil
			case "up", "k":
				if m.editMenuIdx > 0 {
					m.editMenuIdx--
				}
			case "down", "j":
				if m.editMenuIdx < len(editOptions)-1 {
					m.editMenuIdx++
				}
			case "enter":
				if m.editMenuIdx < len(editOptions) {
					opt := editOptions[m.editMenuIdx]
					switch opt.action {
					case "edit_param":
						m.paramInput = ""
						m.focus = focusEditParam
					case "edit_target":
						m.editField = "target"
						m.targetQubit = *m.editGate.Target
						m.focus = focusEditTarget
					case "edit_control":
						m.editField = opt.field
						m.targetQubit = *m.wireField(opt.field)
						m.focus = focusEditControl
					case "delete":
						m.commit(m.prog.withoutStep(m.editOrigStep))
						m.editGate = nil
						m.focus = focusCircuit
					}
				}
			}

		case focusEditParam:
			switch key {
			case "esc":
				m.paramInput = ""
				m.focus = focusEditGate
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				if m.paramInput != "" {
					angle, ok := parseAngleInput(m.paramInput)
					if !ok {
						m.statusMsg = "Invalid angle: use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
						break
					}
					m.editGate.Angle = floatRef(angle)
					m.commitEdit()
				}
				m.paramInput = ""
				m.focus = focusEditGate
			default:
				if isAngleKey(key) {
					m.paramInput += key
				}
			}

		case focusEditTarget, focusEditControl:
			taken := m.otherWires(m.editField)
			switch key {
			case "esc":
				m.focus = focusEditGate
			case "up", "k":
				m.targetQubit = m.nextFreeWire(m.targetQubit, -1, taken...)
			case "down", "j":
				m.targetQubit = m.nextFreeWire(m.targetQubit, 1, taken...)
			case "enter":
				*m.wireField(m.editField) = m.targetQubit
				m.commitEdit()
				m.focus = focusEditGate
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) cancelPending() {
	m.focus = focusCircuit
	m.paramInput = ""
	m.pendingAngle = nil
	m.controlQubits = nil
	m.pendingGate = gates.Invalid
}

// commitEdit writes the working copy back to its step. A rejected edit
// reloads the working copy from the program.
func (m *Model) commitEdit() {
	if m.commit(m.prog.withGate(m.editOrigStep, *m.editGate)) {
		return
	}
	if g := m.prog.GateAt(m.editOrigStep); g != nil {
		gate := *g
		m.editGate = &gate
	}
}

// wireField returns the named wire field of the gate being edited. The
// field is re-pointed at fresh storage so edits never alias the program.
func (m *Model) wireField(name string) *int {
	g := m.editGate
	var field **int
	switch name {
	case "control":
		field = &g.Control
	case "control1":
		field = &g.Control1
	case "control2":
		field = &g.Control2
	default:
		field = &g.Target
	}
	if *field == nil {
		*field = intRef(0)
	} else {
		*field = intRef(**field)
	}
	return *field
}

// otherWires lists the wires of the edited gate except the named field.
func (m *Model) otherWires(name string) []int {
	var out []int
	g := m.editGate
	for field, q := range map[string]*int{"target": g.Target, "control": g.Control, "control1": g.Control1, "control2": g.Control2} {
		if field != name && q != nil && m.fieldUsed(field) {
			out = append(out, *q)
		}
	}
	return out
}

func (m *Model) fieldUsed(field string) bool {
	kind, _ := gates.Parse(m.editGate.Gate)
	switch field {
	case "control":
		return kind == gates.CX
	case "control1", "control2":
		return kind == gates.CCX
	default:
		return true
	}
}

// firstFreeWire returns the lowest wire not in taken.
func (m *Model) firstFreeWire(taken ...int) int {
	return m.nextFreeWire(-1, 1, taken...)
}

// nextFreeWire moves from q in direction dir to the next wire not in taken.
// It stays put when there is none.
func (m *Model) nextFreeWire(q, dir int, taken ...int) int {
	for next := q + dir; next >= 0 && next < m.prog.NumQubits; next += dir {
		if !slicesContains(taken, next) {
			return next
		}
	}
	return q
}

// Helper function
func slicesContains(slice []int, val int) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// editOption represents an option in the edit gate menu.
type editOption struct {
	label  string
	action string
	field  string
}

// getEditOptions returns available edit options for the current gate.
func (m *Model) getEditOptions() []editOption {
	if m.editGate == nil {
		return nil
	}
	var opts []editOption
	kind, _ := gates.Parse(m.editGate.Gate)

	if kind.IsRotation() {
		angle := "none"
		if m.editGate.Angle != nil {
			angle = circuit.FormatAngle(*m.editGate.Angle)
		}
		opts = append(opts, editOption{
			label:  fmt.Sprintf("Angle: %s", angle),
			action: "edit_param",
		})
	}

	if m.editGate.Target != nil {
		opts = append(opts, editOption{
			label:  fmt.Sprintf("Target: q[%d]", *m.editGate.Target),
			action: "edit_target",
		})
	}

	switch kind {
	case gates.CX:
		if m.editGate.Control != nil {
			opts = append(opts, editOption{
				label:  fmt.Sprintf("Control: q[%d]", *m.editGate.Control),
				action: "edit_control",
				field:  "control",
			})
		}
	case gates.CCX:
		for i, q := range []*int{m.editGate.Control1, m.editGate.Control2} {
			if q != nil {
				opts = append(opts, editOption{
					label:  fmt.Sprintf("Control %d: q[%d]", i+1, *q),
					action: "edit_control",
					field:  fmt.Sprintf("control%d", i+1),
				})
			}
		}
	}

	opts = append(opts, editOption{
		label:  "Delete gate",
		action: "delete",
	})

	return opts
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / 3
	circuitWidth := m.width - sideWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)
	qasmHeight := circuitHeight / 2

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(sideWidth, qasmHeight)
	statePanel := m.renderStatePanel(sideWidth, circuitHeight-qasmHeight-2)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	sideColumn := lipgloss.JoinVertical(lipgloss.Left, qasmPanel, statePanel)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, sideColumn)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam, focusEditParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	case focusEditGate:
		frame = overlayAt(frame, m.renderEditGateMenu(), 2, 2)
	}

	return frame
}

// renderParamInput renders angle input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Enter Angle"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Value: %s_", m.paramInput))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57"))
	return menuBorderStyle.Render(sb.String())
}

// renderEditGateMenu renders the edit gate menu overlay.
func (m Model) renderEditGateMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Edit Gate"))
	sb.WriteString("\n\n")
	opts := m.getEditOptions()
	for i, opt := range opts {
		if i == m.editMenuIdx {
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("▸ %s", opt.label)))
		} else {
			sb.WriteString(fmt.Sprintf("  %s", opt.label))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Select  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
