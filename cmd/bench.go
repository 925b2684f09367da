package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/achilleasa/go-kdtree/types"
)

// Build a kd-tree for a scene and compare any-hit query throughput against a
// brute-force scan over the refined primitive list.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	tree, err := loadAndBuild(ctx)
	if err != nil {
		return err
	}
	logger.Noticef("kd-tree statistics:\n%s", tree.Stats().String())

	numRays := ctx.Int("rays")
	if numRays <= 0 {
		return fmt.Errorf("invalid ray count %d", numRays)
	}
	rays := genRays(tree.WorldBound(), numRays, ctx.Int64("seed"))

	prims := tree.Primitives()

	accelHits := 0
	accelStart := time.Now()
	for i := range rays {
		ray := rays[i]
		if tree.IntersectP(&ray) {
			accelHits++
		}
	}
	accelTime := time.Since(accelStart)

	bruteHits := 0
	bruteStart := time.Now()
	for i := range rays {
		ray := rays[i]
		for _, prim := range prims {
			if prim.IntersectP(&ray) {
				bruteHits++
				break
			}
		}
	}
	bruteTime := time.Since(bruteStart)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Query", "Rays", "Hits", "Time", "Rays/sec"})
	table.Append([]string{"kd-tree", fmt.Sprintf("%d", numRays), fmt.Sprintf("%d", accelHits), accelTime.String(), raysPerSec(numRays, accelTime)})
	table.Append([]string{"brute force", fmt.Sprintf("%d", numRays), fmt.Sprintf("%d", bruteHits), bruteTime.String(), raysPerSec(numRays, bruteTime)})
	table.SetFooter([]string{"", "", "", "Speedup", fmt.Sprintf("%.1fx", float64(bruteTime)/float64(accelTime))})
	table.Render()

	logger.Noticef("benchmark results\n%s", buf.String())

	if accelHits != bruteHits {
		logger.Warningf("kd-tree reported %d hits; brute force reported %d", accelHits, bruteHits)
	}
	return nil
}

// Generate deterministic random rays aimed at the scene from a sphere
// surrounding its bounds.
func genRays(bounds types.BBox, count int, seed int64) []types.Ray {
	rng := rand.New(rand.NewSource(seed))
	center := bounds.PMin.Add(bounds.PMax).Mul(0.5)
	radius := bounds.Diagonal().Len()

	rays := make([]types.Ray, count)
	for i := 0; i < count; i++ {
		dir := types.Vec3{
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
		}.Normalize()
		origin := center.Add(dir.Mul(radius))

		target := types.Vec3{
			bounds.PMin[0] + float32(rng.Float64())*(bounds.PMax[0]-bounds.PMin[0]),
			bounds.PMin[1] + float32(rng.Float64())*(bounds.PMax[1]-bounds.PMin[1]),
			bounds.PMin[2] + float32(rng.Float64())*(bounds.PMax[2]-bounds.PMin[2]),
		}
		rays[i] = types.NewRay(origin, target.Sub(origin).Normalize())
	}
	return rays
}

func raysPerSec(count int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", float64(count)/elapsed.Seconds())
}
