package main

import (
	"fmt"
	"strings"

	"qcomposer/internal/gates"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name   string
	kind   gates.Kind
	symbol string
}

func (it menuItem) needsTarget() bool { return it.kind.Arity() > 1 }

func (it menuItem) needsParams() bool { return it.kind.IsRotation() }

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items. Every kind in the
// catalog appears exactly once.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", kind: gates.H, symbol: "H"},
			{name: "Pauli-X (NOT)", kind: gates.X, symbol: "X"},
			{name: "Pauli-Y", kind: gates.Y, symbol: "Y"},
			{name: "Pauli-Z", kind: gates.Z, symbol: "Z"},
			{name: "Phase (S)", kind: gates.S, symbol: "S"},
			{name: "T Gate", kind: gates.T, symbol: "T"},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", kind: gates.RX, symbol: "RX"},
			{name: "Rotate Y", kind: gates.RY, symbol: "RY"},
			{name: "Rotate Z", kind: gates.RZ, symbol: "RZ"},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", kind: gates.CX, symbol: "●─⊕"},
			{name: "Toffoli (CCX)", kind: gates.CCX, symbol: "●─●─⊕"},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget() {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.needsParams() {
			sb.WriteString(dimStyle.Render(" (pi/2)"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
