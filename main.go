// Package main is the entry point for yamanami.
package main

import (
	"github.com/samber/lo"
	"github.com/yamanami-choir/yamanami/cmd"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
