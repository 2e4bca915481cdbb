// Command qsim simulates, exports and imports circuits from the shell.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "qsim:", err)
		os.Exit(1)
	}
}

// newApp builds the CLI. Log output goes to errOut.
func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "qsim",
		Usage:     "exact statevector simulation of small circuits",
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "disabled",
				Usage:   "debug, info, warn, error or disabled",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "simulate a JSON program",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "json",
						Usage:   "json or table",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "abort runs that take longer than this",
					},
				},
				Action: runCommand,
			},
			{
				Name:      "qasm",
				Usage:     "convert a JSON program to OpenQASM 2.0",
				ArgsUsage: "FILE",
				Action:    qasmCommand,
			},
			{
				Name:      "import",
				Usage:     "convert OpenQASM 2.0 to a JSON program",
				ArgsUsage: "FILE",
				Action:    importCommand,
			},
		},
	}
}
