package currency

// RateProvider converts an amount between any two tiers. The core treats it as
// an opaque pure function and never hard-codes exchange rates.
type RateProvider interface {
	Convert(amount float64, from, to Tier) float64
}

// RateFunc adapts a plain function to RateProvider.
type RateFunc func(amount float64, from, to Tier) float64

func (f RateFunc) Convert(amount float64, from, to Tier) float64 { return f(amount, from, to) }

// StepRates is the reference provider: StepRates[i] is how many units of tier i
// one unit of tier i+1 is worth.
type StepRates []float64

// Convert walks the ladder one step at a time. Tiers outside the table yield 0.
func (s StepRates) Convert(amount float64, from, to Tier) float64 {
	if from < 0 || to < 0 || int(from) > len(s) || int(to) > len(s) {
		return 0
	}
	switch {
	case from < to:
		for t := from; t < to; t++ {
			if s[t] <= 0 {
				return 0
			}
			amount /= s[t]
		}
	case from > to:
		for t := from; t > to; t-- {
			amount *= s[t-1]
		}
	}
	return amount
}
