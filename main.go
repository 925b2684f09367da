package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/achilleasa/go-kdtree/cmd"
)

func treeFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "intersect-cost",
			Value: 80,
			Usage: "SAH cost of intersecting one primitive",
		},
		cli.IntFlag{
			Name:  "traversal-cost",
			Value: 1,
			Usage: "SAH cost of traversing one interior node",
		},
		cli.Float64Flag{
			Name:  "empty-bonus",
			Value: 0.5,
			Usage: "SAH cost discount for splits with an empty side",
		},
		cli.IntFlag{
			Name:  "max-prims",
			Value: 1,
			Usage: "max primitives per leaf before splitting is attempted",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Value: -1,
			Usage: "max tree depth; -1 derives the depth from the primitive count",
		},
		cli.BoolFlag{
			Name:  "parallel",
			Usage: "enable parallel construction",
		},
		cli.IntFlag{
			Name:  "worksize",
			Value: 0,
			Usage: "max primitives per sub-tree task; 0 selects an adaptive limit",
		},
		cli.BoolFlag{
			Name:  "reset-bad-refines",
			Usage: "start sub-tree tasks with a zeroed bad-refine counter",
		},
	}
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-kdtree"
	app.Usage = "build and query kd-tree acceleration structures for ray tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a kd-tree for a scene and display its statistics",
			Description: `
Parse a scene definition from a wavefront obj file, refine its meshes into
triangles and build a SAH kd-tree over the refined primitives.`,
			ArgsUsage: "scene_file.obj",
			Flags:     treeFlags(),
			Action:    cmd.BuildTree,
		},
		{
			Name:  "bench",
			Usage: "compare kd-tree queries against a brute-force primitive scan",
			Description: `
Build a kd-tree for a wavefront obj scene, fire deterministic random rays at
it and report any-hit query throughput for the kd-tree and for a brute-force
scan over the refined primitive list.`,
			ArgsUsage: "scene_file.obj",
			Flags: append(treeFlags(),
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of random rays to trace",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "seed for the random ray generator",
				},
			),
			Action: cmd.Bench,
		},
	}

	app.Run(os.Args)
}
