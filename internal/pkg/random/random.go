// Package random draws winners from a recorded seed so that any draw can be replayed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Picker chooses one index in [0, n) with uniform probability.
type Picker interface {
	Pick(n int) (index int, seed int64, err error)
}

type SeededPicker struct {
	newSeed func() (int64, error)
}

func NewSeededPicker() *SeededPicker {
	return &SeededPicker{newSeed: NewSeed}
}

func (p *SeededPicker) Pick(n int) (int, int64, error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("pick from %d candidates", n)
	}

	seed, err := p.newSeed()
	if err != nil {
		return 0, 0, err
	}

	return Replay(seed, n), seed, nil
}

// Replay returns the index a draw with this seed selects among n candidates.
func Replay(seed int64, n int) int {
	return rand.New(rand.NewSource(seed)).Intn(n)
}
