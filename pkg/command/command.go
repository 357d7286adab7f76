// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package command holds the kong-tagged command structs for zeta-blame,
// following antgroup-hugescm's pkg/command layout: a shared Globals plus
// one struct per subcommand with a Run(*Globals) error method.
package command

import (
	"fmt"
	"os"
	"strings"
)

// Globals carries the flags shared across every subcommand.
type Globals struct {
	Verbose bool   `short:"V" name:"verbose" help:"Make the operation more talkative"`
	Root    string `name:"root" help:"Path to the object-store root" default:"."`
}

func (g *Globals) dbgPrint(format string, args ...any) {
	if !g.Verbose {
		return
	}
	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(os.Stderr, "* %s\n", msg)
}
