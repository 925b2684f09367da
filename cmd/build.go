package cmd

import (
	"errors"
	"strings"

	"github.com/urfave/cli"

	"github.com/achilleasa/go-kdtree/accel"
	"github.com/achilleasa/go-kdtree/scene/reader"
)

// Map command flags to kd-tree construction options.
func treeOptions(ctx *cli.Context) accel.Options {
	opts := accel.DefaultOptions()
	opts.IntersectCost = ctx.Int("intersect-cost")
	opts.TraversalCost = ctx.Int("traversal-cost")
	opts.EmptyBonus = float32(ctx.Float64("empty-bonus"))
	opts.MaxPrims = ctx.Int("max-prims")
	opts.MaxDepth = ctx.Int("max-depth")
	opts.ParallelEntry = ctx.Bool("parallel")
	opts.WorkloadSize = ctx.Int("worksize")
	opts.ResetBadRefines = ctx.Bool("reset-bad-refines")
	return opts
}

// Parse the scene file argument and build a kd-tree over its primitives.
func loadAndBuild(ctx *cli.Context) (*accel.KdTree, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene obj file")
	}

	sceneFile := ctx.Args().First()
	if !strings.HasSuffix(sceneFile, ".obj") {
		return nil, errors.New("only wavefront obj scenes are supported")
	}

	logger.Noticef("parsing scene: %s", sceneFile)
	prims, err := reader.ReadFile(sceneFile)
	if err != nil {
		return nil, err
	}

	return accel.New(prims, treeOptions(ctx))
}

// Build a kd-tree for a scene and display its statistics.
func BuildTree(ctx *cli.Context) error {
	setupLogging(ctx)

	tree, err := loadAndBuild(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("kd-tree statistics:\n%s", tree.Stats().String())
	return nil
}
