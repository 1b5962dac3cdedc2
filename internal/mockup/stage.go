package mockup

// Stage names a step of the render pipeline. A render moves through the
// stages in order and never goes back.
type Stage int

const (
	StageReceived Stage = iota
	StageResized
	StageBlended
	StageIlluminated
	StageVignetted
	StageEncoded
)

var stageNames = [...]string{
	StageReceived:    "received",
	StageResized:     "resized",
	StageBlended:     "blended",
	StageIlluminated: "illuminated",
	StageVignetted:   "vignetted",
	StageEncoded:     "encoded",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
