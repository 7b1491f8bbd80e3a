package gacha

import "errors"

var (
	ErrInvalidProb = errors.New("invalid probability p; must be 0..1")
	ErrNoRandom    = errors.New("random source is required")
)

// Draw is a Bernoulli trial: p <= 0 never hits, p >= 1 always hits,
// otherwise it hits when rng.Float64() < p.
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		return false, ErrNoRandom
	}
	return rng.Float64() < p, nil
}
