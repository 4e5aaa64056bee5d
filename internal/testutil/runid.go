package testutil

// ConstantRunID returns the same run ID every time.
//
// Unlike engine.FixedGenerator, which hands out a list of IDs once each,
// it never runs out, so one generator can serve any number of builds.
// It implements engine.RunIDGenerator and is safe for concurrent use.
type ConstantRunID struct {
	id string
}

// NewConstantRunID returns a generator for id. An empty id becomes
// "test-run".
func NewConstantRunID(id string) *ConstantRunID {
	if id == "" {
		id = "test-run"
	}
	return &ConstantRunID{id: id}
}

// Generate returns the fixed run ID.
func (g *ConstantRunID) Generate() string {
	return g.id
}
