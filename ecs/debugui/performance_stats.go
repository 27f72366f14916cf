package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hearthglen/ecs"
)

// NewPerformanceStats returns a PerformanceStats tracking the last
// historyFrames frame times.
func NewPerformanceStats(historyFrames int) PerformanceStats {
	return PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PerformanceStats) Render(w *ecs.World, sched *ecs.Scheduler, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	worldStats := w.Stats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", worldStats.EntityCount))
	imgui.Text(fmt.Sprintf("Component Types: %d", len(worldStats.ComponentCounts)))
	imgui.Text(fmt.Sprintf("Ephemeral Types: %d", len(worldStats.EphemeralCounts)))
	imgui.Text(fmt.Sprintf("Singletons: %d", worldStats.SingletonCount))
	imgui.Text(fmt.Sprintf("Deferred Pending: %d", worldStats.DeferredPending))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)

	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Component Breakdown") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ComponentStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Component Type")
			imgui.TableSetupColumn("Regular Count")
			imgui.TableSetupColumn("Ephemeral Count")
			imgui.TableHeadersRow()

			for t, count := range worldStats.ComponentCounts {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(t.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", count))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", worldStats.EphemeralCounts[t]))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if sched != nil {
		if imgui.TreeNodeStr("Scheduler") {
			schedStats := sched.Stats()
			imgui.Text(fmt.Sprintf("Systems: %d (built: %v)", schedStats.SystemCount, schedStats.Built))
			imgui.Text(fmt.Sprintf("Total Executions: %d", schedStats.TotalExecutions))

			const sysFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
			if imgui.BeginTableV("SystemStatsTable", 5, sysFlags, imgui.NewVec2(0, 0), 0) {
				imgui.TableSetupColumn("System")
				imgui.TableSetupColumn("Runs")
				imgui.TableSetupColumn("Last")
				imgui.TableSetupColumn("Avg")
				imgui.TableSetupColumn("Max")
				imgui.TableHeadersRow()

				for _, sys := range schedStats.Systems {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text(sys.Type.String())
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
					imgui.TableNextColumn()
					imgui.Text(sys.LastDuration.String())
					imgui.TableNextColumn()
					imgui.Text(sys.AvgDuration.String())
					imgui.TableNextColumn()
					imgui.Text(sys.MaxDuration.String())
				}

				imgui.EndTable()
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

// FrameTimer measures the wall-clock delta between successive calls to
// DeltaTime, for feeding PerformanceStats.Render's frame-time graph.
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{lastFrameTime: time.Now()}
}

func (ft *FrameTimer) DeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
