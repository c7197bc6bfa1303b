// Command octane is a thin external collaborator around the interpreter
// core: it assembles or runs a program from a file and prints an
// instruction trace. It carries no consensus logic of its own.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/octanevm/octane/asm"
	"github.com/octanevm/octane/core/state"
	"github.com/octanevm/octane/core/types"
	"github.com/octanevm/octane/core/vm"
	"github.com/octanevm/octane/log"
)

func main() {
	app := &cli.App{
		Name:  "octane",
		Usage: "assemble and run Ethereum-compatible bytecode",
		Commands: []*cli.Command{
			runCommand,
			asmCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("octane: command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "execute a program and print its trace and return data",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "asm", Usage: "treat the file as mnemonic assembly instead of hex bytecode"},
		&cli.StringFlag{Name: "calldata", Usage: "hex-encoded call data, with or without 0x"},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return cli.Exit("run: expected exactly one file argument", 1)
		}
		code, err := loadCode(c.Args().First(), c.Bool("asm"))
		if err != nil {
			return err
		}
		callData, err := decodeHex(c.String("calldata"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("run: invalid --calldata: %v", err), 1)
		}

		statedb := state.NewMemoryStateDB()
		evm := vm.NewEVM(vm.NewBlockContext(), statedb)
		evm.Tracer = vm.NewWriterTracer(os.Stdout)

		root := vm.NewFrame(types.Address{}, types.Address{}, types.Address{}, code, callData, nil, 0)

		statedb.Prepare()
		ret, runErr := evm.Run(root)
		statedb.Commit()

		fmt.Printf("return data: 0x%x\n", ret)
		if runErr != nil {
			return cli.Exit(fmt.Sprintf("run: %v", runErr), 1)
		}
		return nil
	},
}

var asmCommand = &cli.Command{
	Name:      "asm",
	Usage:     "assemble a mnemonic listing and print the resulting hex bytecode",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return cli.Exit("asm: expected exactly one file argument", 1)
		}
		src, err := os.ReadFile(c.Args().First())
		if err != nil {
			return cli.Exit(fmt.Sprintf("asm: %v", err), 1)
		}
		code, err := asm.Assemble(string(src))
		if err != nil {
			return cli.Exit(fmt.Sprintf("asm: %v", err), 1)
		}
		fmt.Printf("0x%x\n", code)
		return nil
	},
}

// loadCode reads file and, if isAsm, assembles it; otherwise it decodes the
// file's contents as hex bytecode.
func loadCode(file string, isAsm bool) ([]byte, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("run: %v", err), 1)
	}
	if isAsm {
		code, err := asm.Assemble(string(raw))
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("run: %v", err), 1)
		}
		return code, nil
	}
	code, err := decodeHex(string(raw))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("run: invalid hex bytecode: %v", err), 1)
	}
	return code, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}
