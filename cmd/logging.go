package cmd

import (
	"github.com/urfave/cli"

	"github.com/achilleasa/go-kdtree/log"
)

var logger = log.New("kdtree")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
