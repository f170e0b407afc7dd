// Package metrics exposes node database counters and gauges.
package metrics

// Result labels shared by the save and load counters.
const (
	ResultSuccess = "success"
)

// Recorder receives node database measurements.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// IncPacket counts an inbound packet by payload variant.
	IncPacket(variant string)

	// IncNodeCreated counts a newly discovered node.
	IncNodeCreated()

	// IncSave counts a snapshot save by result.
	IncSave(result string)

	// IncLoad counts a snapshot load by result.
	IncLoad(result string)
}

// NoopRecorder discards all measurements.
type NoopRecorder struct{}

func (NoopRecorder) IncPacket(string) {}
func (NoopRecorder) IncNodeCreated() {}
func (NoopRecorder) IncSave(string) {}
func (NoopRecorder) IncLoad(string) {}

var _ Recorder = NoopRecorder{}
