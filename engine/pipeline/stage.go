package pipeline

import "strconv"

// Stage is a state of a pipeline run. Stages are passed strictly in order.
type Stage int

// Stages of a pipeline run.
const (
	RawText    Stage = iota // text in logical order
	Reordered               // text in visual order
	Shaped                  // glyph run
	Measured                // bounding box and baseline shift known
	Composited              // canvas completely drawn
	Serialized              // image written
)

var stageNames = [...]string{"RawText", "Reordered", "Shaped", "Measured", "Composited", "Serialized"}

func (st Stage) String() string {
	if st < RawText || st > Serialized {
		return "Stage(" + strconv.Itoa(int(st)) + ")"
	}
	return stageNames[st]
}
