package common

// Clock reports the elapsed seconds since the previous tick.
type Clock interface {
	DeltaTime() float64
}

// FixedClock always advances by Step seconds. The game runs at a fixed TPS so
// every tick is the same length, which keeps replays reproducible.
type FixedClock struct {
	Step float64
}

func (c FixedClock) DeltaTime() float64 {
	return c.Step
}
