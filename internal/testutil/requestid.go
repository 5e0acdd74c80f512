package testutil

// StaticRequestID returns the same request id every time.
//
// Unlike dispatch.FixedGenerator, which hands out a list of ids in order,
// this generator never runs out, so tests that do not care how many
// commands are queued can still get stable log output.
//
// Thread-safety: StaticRequestID is stateless and safe for concurrent use.
type StaticRequestID struct {
	id string
}

// NewStaticRequestID creates a generator for id. If id is empty, Generate
// returns "test-request".
func NewStaticRequestID(id string) *StaticRequestID {
	if id == "" {
		id = "test-request"
	}
	return &StaticRequestID{id: id}
}

// Generate returns the fixed id.
func (g *StaticRequestID) Generate() string {
	return g.id
}
