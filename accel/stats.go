package accel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// BuildStats collects counters and phase timings for one kd-tree build.
type BuildStats struct {
	// Size of the refined flat primitive list.
	Primitives int

	// Final node array size and the number of leaves in it.
	Nodes int
	Leafs int

	// Deepest leaf level reached, counted from the root.
	MaxDepth int

	// Number of sub-tree tasks offloaded to the worker pool.
	SubTreeTasks int

	// Per-phase and total wall clock times.
	RefineTime time.Duration
	BoundsTime time.Duration
	BuildTime  time.Duration
	SpliceTime time.Duration
	TotalTime  time.Duration
}

// Build a tabular representation of the build statistics.
func (st BuildStats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", st.Primitives)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", st.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", st.Leafs)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", st.MaxDepth)})
	table.Append([]string{"Sub-tree tasks", fmt.Sprintf("%d", st.SubTreeTasks)})
	table.Append([]string{"Refine time", st.RefineTime.String()})
	table.Append([]string{"Bounds time", st.BoundsTime.String()})
	table.Append([]string{"Build time", st.BuildTime.String()})
	table.Append([]string{"Splice time", st.SpliceTime.String()})
	table.SetFooter([]string{"Total time", st.TotalTime.String()})

	table.Render()
	return buf.String()
}
