// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "cueview-cli/cmd/cueview"
)

func main() {
	cmd.Execute()
}
