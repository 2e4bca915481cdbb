package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v2"

	"qcomposer/internal/circuit"
	"qcomposer/internal/result"
	"qcomposer/internal/simulator"
	"qcomposer/pkg/logger"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// readInput reads the single FILE argument, or stdin for "-".
func readInput(c *cli.Context) ([]byte, error) {
	name := c.Args().First()
	switch {
	case name == "":
		return nil, fmt.Errorf("%s: missing FILE argument", c.Command.Name)
	case name == "-":
		return io.ReadAll(c.App.Reader)
	default:
		return os.ReadFile(name)
	}
}

func readRequest(c *cli.Context) (circuit.Request, error) {
	data, err := readInput(c)
	if err != nil {
		return circuit.Request{}, err
	}
	return circuit.DecodeRequest(data)
}

func runCommand(c *cli.Context) error {
	req, err := readRequest(c)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: c.String("log-level"), Pretty: true, Output: c.App.ErrWriter})
	sim := simulator.New(log, simulator.WithTimeout(c.Duration("timeout")))

	run, err := sim.Simulate(c.Context, req)
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(run.Result)
	case "table":
		_, err := fmt.Fprintln(c.App.Writer, renderTable(run.Result))
		return err
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func qasmCommand(c *cli.Context) error {
	req, err := readRequest(c)
	if err != nil {
		return err
	}
	circ, err := circuit.Validate(req)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.App.Writer, circ.ToQASM())
	return err
}

func importCommand(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	req, err := circuit.ParseQASM(string(data))
	if err != nil {
		return err
	}
	if _, err := circuit.Validate(req); err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(req)
}

// renderTable lists every basis state with the highest qubit leftmost.
func renderTable(r *result.Result) string {
	rows := make([][]string, len(r.Probabilities))
	for i := range r.Probabilities {
		amp := r.Statevector[i]
		rows[i] = []string{
			fmt.Sprintf("|%0*b⟩", r.QubitCount, i),
			strconv.FormatFloat(amp.Re, 'f', -1, 64),
			strconv.FormatFloat(amp.Im, 'f', -1, 64),
			strconv.FormatFloat(r.Probabilities[i], 'f', -1, 64),
			strconv.FormatFloat(r.Phases[i], 'f', -1, 64),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("basis", "re", "im", "probability", "phase").
		Rows(rows...).
		String()
}
