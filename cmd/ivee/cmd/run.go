/*
Copyright © 2026 ivee contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nimblevm/ivee"
	"github.com/spf13/cobra"
)

// RunResult is the JSON shape printed by `ivee run`.
type RunResult struct {
	State ivee.ArchState `json:"state"`
	Error string         `json:"error,omitempty"`
}

var (
	runFormat string
	runRegs   []string
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runFormat, "format", "any", "executable format: bin, elf64, or any")
	runCmd.Flags().StringArrayVar(&runRegs, "reg", nil, "seed a register before the call, name=value (e.g. --reg rax=0x2a)")
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Load and run a guest image, printing the resulting register state as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := doRun(args[0])

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func doRun(path string) RunResult {
	format, err := parseFormat(runFormat)
	if err != nil {
		return RunResult{Error: err.Error()}
	}

	driver, err := ivee.NewDefaultDriver()
	if err != nil {
		return RunResult{Error: fmt.Sprintf("no hypervisor driver available: %v", err)}
	}

	inst, err := ivee.Create(ivee.Capabilities(), driver)
	if err != nil {
		return RunResult{Error: fmt.Sprintf("failed to create instance: %v", err)}
	}
	defer inst.Close()

	if err := inst.LoadExecutable(path, format); err != nil {
		return RunResult{Error: fmt.Sprintf("failed to load %q: %v", path, err)}
	}

	var regs ivee.ArchState
	if err := seedRegs(&regs, runRegs); err != nil {
		return RunResult{Error: err.Error()}
	}

	if err := inst.Call(&regs); err != nil {
		return RunResult{Error: fmt.Sprintf("call failed: %v", err)}
	}

	return RunResult{State: regs}
}

func parseFormat(s string) (ivee.Format, error) {
	switch strings.ToLower(s) {
	case "bin":
		return ivee.FormatBin, nil
	case "elf64":
		return ivee.FormatELF64, nil
	case "any":
		return ivee.FormatAny, nil
	default:
		return 0, fmt.Errorf("unrecognized format %q (want bin, elf64, or any)", s)
	}
}

func seedRegs(regs *ivee.ArchState, specs []string) error {
	for _, spec := range specs {
		name, valStr, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("malformed --reg %q (want name=value)", spec)
		}
		val, err := strconv.ParseUint(strings.TrimSpace(valStr), 0, 64)
		if err != nil {
			return fmt.Errorf("malformed --reg value %q: %w", spec, err)
		}

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "rax":
			regs.RAX = val
		case "rbx":
			regs.RBX = val
		case "rcx":
			regs.RCX = val
		case "rdx":
			regs.RDX = val
		case "rsi":
			regs.RSI = val
		case "rdi":
			regs.RDI = val
		case "rbp":
			regs.RBP = val
		case "r8":
			regs.R8 = val
		case "r9":
			regs.R9 = val
		case "r10":
			regs.R10 = val
		case "r11":
			regs.R11 = val
		case "r12":
			regs.R12 = val
		case "r13":
			regs.R13 = val
		case "r14":
			regs.R14 = val
		case "r15":
			regs.R15 = val
		default:
			return fmt.Errorf("unrecognized register %q in --reg", name)
		}
	}
	return nil
}
