package store

import (
	"github.com/xtding233/gacha-core/internal/currency"
	gerrors "github.com/xtding233/gacha-core/internal/errors"
)

// maxTopUp bounds the search for a top-up amount.
const maxTopUp = int64(1) << 40

// UnitsNeeded returns the smallest number of packTier units that, added to w,
// lets the payment of cost in target succeed under opts. It is 0 when w
// already affords the cost.
func UnitsNeeded(c *currency.Converter, w currency.Wallet, target, packTier currency.Tier, cost int64, opts currency.PayOptions) (int64, error) {
	l := c.Ladder()
	if !l.Valid(target) || !l.Valid(packTier) {
		return 0, gerrors.Validation("unknown tier in top-up %d -> %d", packTier, target)
	}
	if c.CanAfford(w, target, cost, opts) {
		return 0, nil
	}
	affords := func(k int64) bool {
		topped := l.Canonical(w)
		topped[packTier] += k
		return c.CanAfford(topped, target, cost, opts)
	}

	hi := int64(1)
	for !affords(hi) {
		if hi >= maxTopUp {
			return 0, gerrors.Affordability("no %s top-up covers %d %s", l.Name(packTier), cost, l.Name(target)).
				WithContext("tier", l.Name(packTier))
		}
		hi *= 2
	}
	lo := hi / 2 // !affords(lo), or lo == 0
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if affords(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
