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
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check /dev/kvm support on this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := ivee.Supported()
		if err != nil {
			fmt.Printf("kvm support: error: %v\n", err)
			return nil
		}
		fmt.Printf("kvm support: %v\n", ok)
		if !ok {
			return nil
		}

		driver, err := ivee.NewDefaultDriver()
		if err != nil {
			fmt.Printf("driver: error: %v\n", err)
			return nil
		}
		vm, err := driver.CreateVM()
		if err != nil {
			fmt.Printf("driver: CreateVM failed: %v\n", err)
			return nil
		}
		defer vm.Close()
		fmt.Println("driver: ok (test VM created and closed)")
		return nil
	},
}
