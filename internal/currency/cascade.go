package currency

import (
	"math"

	"go.uber.org/zap"

	gerrors "github.com/xtding233/gacha-core/internal/errors"
)

// PayOptions control which tiers may fund a payment.
type PayOptions struct {
	// AllowTopTier lets the cascade break top-tier units.
	AllowTopTier bool
	// AllowDownFromHigher enables cascading from higher tiers at all.
	AllowDownFromHigher bool
}

// Hop is one single-step down-conversion performed by the cascade.
type Hop struct {
	From     Tier  `json:"from" yaml:"from"`
	To       Tier  `json:"to" yaml:"to"`
	Units    int64 `json:"units" yaml:"units"`
	Produced int64 `json:"produced" yaml:"produced"`
}

// PaymentDetail describes how a cost was covered.
type PaymentDetail struct {
	Currency Tier  `json:"currency"`
	Cost     int64 `json:"cost"`
	// PaidDirect is the part of the cost the target tier already held.
	PaidDirect int64 `json:"paid_direct"`
	Hops       []Hop `json:"hops,omitempty"`
	// FromHigher is the part of the cost sourced by cascading.
	FromHigher int64 `json:"from_higher"`
	// Remaining is the target tier balance after payment.
	Remaining int64 `json:"remaining"`
}

// PaymentResult is all-or-nothing: on failure Wallet equals the input.
type PaymentResult struct {
	OK     bool
	Wallet Wallet
	Detail PaymentDetail
	Err    error
}

// PayForRoll deducts cost from target, breaking higher tiers down when the
// target balance is short. Either the full cost is paid and every hop is
// reflected in the returned wallet, or nothing changes.
func (c *Converter) PayForRoll(w Wallet, target Tier, cost int64, opts PayOptions) PaymentResult {
	orig := c.ladder.Canonical(w)

	if !c.ladder.Valid(target) {
		return PaymentResult{Wallet: orig, Err: gerrors.Validation("unknown payment tier %d", target)}
	}
	if cost < 0 {
		return PaymentResult{Wallet: orig, Err: gerrors.Validation("cost must not be negative, got %d", cost)}
	}

	detail := PaymentDetail{Currency: target, Cost: cost}
	have := orig[target]
	if have >= cost {
		out := orig.Clone()
		out[target] -= cost
		detail.PaidDirect = cost
		detail.Remaining = out[target]
		return PaymentResult{OK: true, Wallet: out, Detail: detail}
	}
	if !opts.AllowDownFromHigher {
		return PaymentResult{Wallet: orig, Detail: PaymentDetail{Currency: target, Cost: cost},
			Err: gerrors.Affordability("%s balance %d cannot cover %d", c.ladder.Name(target), have, cost).
				WithContext("tier", c.ladder.Name(target))}
	}

	work := orig.Clone()
	shortfall := cost - have
	for t := target + 1; t <= c.ladder.Top() && shortfall > 0; t++ {
		if t == c.ladder.Top() && !opts.AllowTopTier {
			break
		}
		if work[t] <= 0 {
			continue
		}
		yield := c.rates.Convert(1, t, target)
		if yield <= 0 || math.IsNaN(yield) {
			continue
		}
		units := min(int64(math.Ceil(float64(shortfall)/yield)), work[t])

		var hops []Hop
		var ok bool
		work, hops, ok = c.cascade(work, t, target, units)
		if !ok {
			return PaymentResult{Wallet: orig, Detail: PaymentDetail{Currency: target, Cost: cost},
				Err: gerrors.Affordability("cascade from %s interrupted", c.ladder.Name(t))}
		}
		detail.Hops = append(detail.Hops, hops...)
		shortfall = cost - work[target]
	}

	if shortfall > 0 {
		return PaymentResult{Wallet: orig, Detail: PaymentDetail{Currency: target, Cost: cost},
			Err: gerrors.Affordability("short %d %s after cascading", shortfall, c.ladder.Name(target)).
				WithContext("tier", c.ladder.Name(target)).
				WithContext("shortfall", shortfall)}
	}

	work[target] -= cost
	detail.PaidDirect = have
	detail.FromHigher = cost - have
	detail.Remaining = work[target]

	c.log.Debug("payment cascaded",
		zap.String("tier", c.ladder.Name(target)),
		zap.Int64("cost", cost),
		zap.Int64("paid_direct", detail.PaidDirect),
		zap.Int64("from_higher", detail.FromHigher),
		zap.Int("hops", len(detail.Hops)),
	)
	return PaymentResult{OK: true, Wallet: work, Detail: detail}
}

// CanAfford reports whether PayForRoll would succeed, without applying it.
func (c *Converter) CanAfford(w Wallet, target Tier, cost int64, opts PayOptions) bool {
	return c.PayForRoll(w, target, cost, opts).OK
}

// cascade walks units of from down to target one tier at a time.
func (c *Converter) cascade(w Wallet, from, target Tier, units int64) (Wallet, []Hop, bool) {
	hops := make([]Hop, 0, int(from-target))
	for step := from; step > target; step-- {
		res := c.Convert(w, step, step-1, units, ConvertOptions{})
		if !res.OK {
			return w, nil, false
		}
		hops = append(hops, Hop{From: step, To: step - 1, Units: units, Produced: res.Received})
		w = res.Wallet
		units = res.Received
		if units == 0 {
			break
		}
	}
	return w, hops, true
}
