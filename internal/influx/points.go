package influx

import (
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// BoardSample is one periodic reading of the board and its storage pipeline
type BoardSample struct {
	Session      string
	Mode         string
	Players      int
	Tags         int
	Lines        int
	FreeLines    int
	Zones        int
	Nodes        int
	OffsideLeft  *float64
	OffsideRight *float64

	PendingNodes int
	SavedNodes   int
	FailedSaves  int
	LastWrite    time.Duration
}

// PerformancePoint renders a sample for BucketPerformance
func PerformancePoint(s BoardSample, at time.Time) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement("board_state").
		AddTag("session", s.Session).
		AddTag("mode", s.Mode).
		AddField("players", s.Players).
		AddField("tags", s.Tags).
		AddField("lines", s.Lines).
		AddField("free_lines", s.FreeLines).
		AddField("zones", s.Zones).
		AddField("nodes", s.Nodes).
		AddField("pending_nodes", s.PendingNodes).
		AddField("saved_nodes", s.SavedNodes).
		AddField("failed_saves", s.FailedSaves).
		AddField("last_write_ms", float64(s.LastWrite.Microseconds())/1000).
		SetTime(at)
	// absent offside lines are left out rather than written as zero
	if s.OffsideLeft != nil {
		p.AddField("offside_left", *s.OffsideLeft)
	}
	if s.OffsideRight != nil {
		p.AddField("offside_right", *s.OffsideRight)
	}
	return p
}

// ActivityPoint records one host notification for BucketActivity
func ActivityPoint(session, event string, at time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("board_event").
		AddTag("session", session).
		AddTag("event", event).
		AddField("count", 1).
		SetTime(at)
}
