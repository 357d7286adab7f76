// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/antgroup/zeta-blame/modules/trace"
	"github.com/antgroup/zeta-blame/pkg/command"
)

// app embeds Blame's flags directly rather than nesting it under a
// subcommand name: zeta-blame does exactly one thing, so "zeta-blame
// [flags] [revision] <path>" is the whole surface.
type app struct {
	command.Globals
	command.Blame
}

func main() {
	var a app
	parser := kong.Must(&a,
		kong.Name("zeta-blame"),
		kong.Description("Line-level provenance over a content-addressed commit history"),
		kong.UsageOnError(),
	)
	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	trace.SetVerbose(a.Verbose)
	if err := a.Blame.Run(&a.Globals); err != nil {
		parser.FatalIfErrorf(err)
		os.Exit(1)
	}
}
