package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0,1). Every roll takes one explicitly;
// nothing in this package reads a global source.
type RandomSource interface {
	Float64() float64
}

// RandFunc adapts a bare function to RandomSource.
type RandFunc func() float64

func (f RandFunc) Float64() float64 { return f() }

// crypto random: production default, built once at the call site
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// DefaultRNG returns a crypto-backed source for production rolls.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG for tests, audits and Monte Carlo
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a PCG source; equal seeds give equal sequences.
func NewSeededRNG(seed uint64) RandomSource {
	return NewSeededStream(seed, 0)
}

// NewSeededStream returns an independent PCG stream for the same seed, so the
// rarity and featured draws of one session can be replayed separately.
func NewSeededStream(seed, stream uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, stream))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }
