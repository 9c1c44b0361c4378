// Package dice supplies the ordered random stream every attack draws from.
package dice

import (
	"io"
	"math/rand"
)

// Roller is the dice source the resolution pipeline consumes.
type Roller interface {
	// D6 returns a single six-sided die result in [1, 6].
	D6() int
	// Roll returns the sum of count dice with the given number of sides.
	Roll(count, sides int) int
}

// Roll2D6 draws two six-sided dice and returns their sum.
func Roll2D6(r Roller) int {
	return r.D6() + r.D6()
}

// Stream is a seeded roller. One stream per game session keeps a full turn
// reproducible given the same seed and attack ordering.
//
// Stream is not safe for concurrent use; resolution is sequential.
type Stream struct {
	seed int64
	rng  *rand.Rand
}

// NewStream returns a stream seeded with seed.
func NewStream(seed int64) *Stream {
	return &Stream{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 { return s.seed }

func (s *Stream) D6() int { return s.rng.Intn(6) + 1 }

func (s *Stream) Roll(count, sides int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += s.rng.Intn(sides) + 1
	}
	return total
}

// Reader exposes the stream as a byte source, used for reproducible ids.
func (s *Stream) Reader() io.Reader { return s.rng }

// Scripted replays fixed die faces in order. Once the script runs out every
// further die shows Fallback (1 when unset).
type Scripted struct {
	Faces    []int
	Fallback int
	pos      int
}

// Script returns a Scripted roller over faces.
func Script(faces ...int) *Scripted {
	return &Scripted{Faces: faces}
}

func (s *Scripted) next(sides int) int {
	if s.pos >= len(s.Faces) {
		if s.Fallback > 0 {
			return s.Fallback
		}
		return 1
	}
	v := s.Faces[s.pos]
	s.pos++
	if v < 1 {
		v = 1
	}
	if v > sides {
		v = sides
	}
	return v
}

func (s *Scripted) D6() int { return s.next(6) }

func (s *Scripted) Roll(count, sides int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += s.next(sides)
	}
	return total
}

// Remaining reports how many scripted faces have not been drawn yet.
func (s *Scripted) Remaining() int { return len(s.Faces) - s.pos }
