package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/camlabs/cambench/internal/bench"
)

func printResult(params bench.Params, result *bench.Result) {
	fmt.Println("Parameters:", params.String())

	if result.Video != nil {
		v := result.Video
		fmt.Println("Video:")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
		table.SetAutoFormatHeaders(false)
		table.SetBorder(true)
		table.SetHeader([]string{
			"Frames", "Dropped", "Avg FPS",
			"FPS\nP50", "FPS\nP90",
			"Frame Time\nP50 (ms)", "Frame Time\nP99 (ms)",
			"Bitrate\n(Mbps)", "Size\n(MB)",
		})
		table.Append([]string{
			fmt.Sprintf("%d", v.TotalFrames),
			fmt.Sprintf("%d", v.DroppedFrames),
			fmt.Sprintf("%.2f", v.AvgFPS),
			fmt.Sprintf("%.1f", v.FPSStats.Percentiles.P50),
			fmt.Sprintf("%.1f", v.FPSStats.Percentiles.P90),
			fmt.Sprintf("%.2f", v.FrameTimePercentilesMs.P50),
			fmt.Sprintf("%.2f", v.FrameTimePercentilesMs.P99),
			fmt.Sprintf("%.3f", v.BitrateMbps),
			fmt.Sprintf("%.2f", v.TotalSizeMB),
		})
		table.Render()
	}

	if result.Control != nil {
		c := result.Control
		fmt.Println("Control:")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
		table.SetAutoFormatHeaders(false)
		table.SetBorder(true)
		table.SetHeader([]string{
			"Commands", "Success\n(%)",
			"Latency\nMin (ms)", "Latency\nAvg (ms)", "Latency\nMax (ms)",
			"Latency\nP50 (ms)", "Latency\nP99 (ms)",
			"Stability\n(ms)", "Errors",
		})
		table.Append([]string{
			fmt.Sprintf("%d", len(c.LatencyMs)),
			fmt.Sprintf("%.1f%%", c.SuccessRate*100),
			fmt.Sprintf("%.2f", c.LatencyStats.MinMs),
			fmt.Sprintf("%.2f", c.LatencyStats.AvgMs),
			fmt.Sprintf("%.2f", c.LatencyStats.MaxMs),
			fmt.Sprintf("%.2f", c.LatencyStats.Percentiles.P50),
			fmt.Sprintf("%.2f", c.LatencyStats.Percentiles.P99),
			fmt.Sprintf("%.2f", c.LatencyStats.StabilityMs),
			fmt.Sprintf("%d", len(c.Errors)),
		})
		table.Render()
	}
}

func printSweepSummary(outcomes []bench.Outcome) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader([]string{
		"Video", "Control", "Res", "Q", "Raw",
		"Status", "Avg FPS", "Latency\nP50 (ms)", "Success\n(%)",
	})

	for _, o := range outcomes {
		status := "ok"
		avgFPS, latencyP50, successRate := "-", "-", "-"
		if o.Err != "" {
			status = "failed: " + o.Err
		} else if o.Result != nil {
			if o.Result.Video != nil {
				avgFPS = fmt.Sprintf("%.2f", o.Result.Video.AvgFPS)
			}
			if o.Result.Control != nil {
				latencyP50 = fmt.Sprintf("%.2f", o.Result.Control.LatencyStats.Percentiles.P50)
				successRate = fmt.Sprintf("%.1f%%", o.Result.Control.SuccessRate*100)
			}
		}
		table.Append([]string{
			orNoneString(string(o.Params.VideoProtocol)),
			orNoneString(string(o.Params.ControlProtocol)),
			orNoneString(o.Params.Resolution),
			fmt.Sprintf("%d", o.Params.Quality),
			fmt.Sprintf("%t", o.Params.RawMode),
			status,
			avgFPS, latencyP50, successRate,
		})
	}
	table.Render()
}

func orNoneString(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
