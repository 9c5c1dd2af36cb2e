package tree

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// IDGenerator produces ids for new skills.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// UUIDGenerator returns random (v4) UUID strings.
func UUIDGenerator() IDGenerator {
	return IDFunc(uuid.NewString)
}

// Jitter returns the offset applied to a new skill's position.
type Jitter func() (dx, dy float64)

// NoJitter places every new skill exactly at the origin.
func NoJitter() (float64, float64) { return 0, 0 }

// RandomJitter returns offsets drawn uniformly from [-limit, limit] on each axis.
func RandomJitter(limit float64) Jitter {
	if limit <= 0 {
		return NoJitter
	}
	return func() (float64, float64) {
		return (rand.Float64()*2 - 1) * limit, (rand.Float64()*2 - 1) * limit
	}
}
