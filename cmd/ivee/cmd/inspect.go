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
	"fmt"

	"github.com/nimblevm/ivee"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the region layout an executable would load into, without creating a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := ivee.Inspect(args[0], ivee.FormatAny)
		if err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}

		fmt.Printf("format: %s\n", layout.Format)
		fmt.Printf("entry:  0x%x\n", layout.Entry)
		fmt.Println("regions:")
		for _, r := range layout.Regions {
			fmt.Printf("  gpa=0x%08x size=0x%-8x prot=%s readonly=%v\n",
				r.GuestPhysAddr, r.Size, r.Prot, r.ReadOnly)
		}
		fmt.Printf("page tables: gpa=0x%08x size=0x%x\n", layout.PageTable.GuestPhysAddr, layout.PageTable.Size)
		return nil
	},
}
