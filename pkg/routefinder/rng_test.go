package routefinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_SameSeedSameSequence(t *testing.T) {
	a := newRNG(42)
	b := newRNG(42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.intn(1000), b.intn(1000))
	}
}

func TestRNG_DifferentSeedsDiverge(t *testing.T) {
	a := newRNG(1)
	b := newRNG(2)

	diverged := false
	for i := 0; i < 20; i++ {
		if a.intn(1<<30) != b.intn(1<<30) {
			diverged = true
		}
	}
	assert.True(t, diverged)
}

func TestRNG_Intn_NonPositiveReturnsZero(t *testing.T) {
	r := newRNG(1)
	assert.Equal(t, 0, r.intn(0))
	assert.Equal(t, 0, r.intn(-5))
}

func TestRNG_Shuffle_SameSeedSameOrder(t *testing.T) {
	a := newRNG(7)
	b := newRNG(7)

	s1 := []int{0, 1, 2, 3, 4, 5}
	s2 := []int{0, 1, 2, 3, 4, 5}

	a.shuffle(len(s1), func(i, j int) { s1[i], s1[j] = s1[j], s1[i] })
	b.shuffle(len(s2), func(i, j int) { s2[i], s2[j] = s2[j], s2[i] })

	assert.Equal(t, s1, s2)
}
