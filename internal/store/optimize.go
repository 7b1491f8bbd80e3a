package store

import (
	"sort"
)

// variant is a purchasable pack form. once marks a first-time x2 form, which
// can be bought at most one time.
type variant struct {
	id, name string
	units    int64
	price    int64
	once     bool
}

// variants splits each pack into its repeatable form and, while first-time
// doubling is still available, a one-off x2 form.
func variants(cat Catalog, first FirstTimeState) (repeat, once []variant) {
	for _, p := range cat.Packs {
		if p.Units+p.BonusUnits <= 0 || p.PriceCents <= 0 {
			continue
		}
		if p.FirstTimeX2 && first[p.ID] {
			once = append(once, variant{p.ID + "#x2", p.Name + " (x2)", p.Units*2 + p.BonusUnits, p.PriceCents, true})
		}
		repeat = append(repeat, variant{p.ID, p.Name, p.Units + p.BonusUnits, p.PriceCents, false})
	}
	return repeat, once
}

// subsetTotals sums the one-off variants selected by mask.
func subsetTotals(once []variant, mask int) (units, price int64) {
	for i, v := range once {
		if mask&(1<<i) != 0 {
			units += v.units
			price += v.price
		}
	}
	return units, price
}

const inf = int64(^uint64(0) >> 1)

// MinCostAtLeast finds the minimum-cost combination that yields at least
// target units.
func MinCostAtLeast(cat Catalog, target int64, first FirstTimeState) Plan {
	repeat, once := variants(cat, first)
	if target <= 0 || len(repeat)+len(once) == 0 {
		return Plan{Currency: cat.Currency}
	}

	var maxUnits int64
	for _, v := range repeat {
		maxUnits = max(maxUnits, v.units)
	}
	limit := target + maxUnits

	// dp[u]: min cost of repeatable packs reaching exactly u units, u capped at limit.
	dp := make([]int64, limit+1)
	pick := make([]int, limit+1)
	prev := make([]int64, limit+1)
	for u := range dp {
		dp[u], pick[u], prev[u] = inf, -1, -1
	}
	dp[0] = 0
	for u := int64(0); u <= limit; u++ {
		if dp[u] == inf {
			continue
		}
		for i, v := range repeat {
			nu := min(u+v.units, limit)
			if c := dp[u] + v.price; c < dp[nu] {
				dp[nu], pick[nu], prev[nu] = c, i, u
			}
		}
	}
	// bestFrom[u]: cheapest reachable total at or above u.
	bestFrom := make([]int64, limit+2)
	bestFrom[limit+1] = -1
	for u := limit; u >= 0; u-- {
		bestFrom[u] = bestFrom[u+1]
		if dp[u] != inf && (bestFrom[u] == -1 || dp[u] <= dp[bestFrom[u]]) {
			bestFrom[u] = u
		}
	}

	bestCost, bestMask, bestU := inf, -1, int64(-1)
	for mask := 0; mask < 1<<len(once); mask++ {
		units, price := subsetTotals(once, mask)
		rem := max(target-units, 0)
		u := bestFrom[rem]
		if u == -1 {
			continue
		}
		if c := price + dp[u]; c < bestCost {
			bestCost, bestMask, bestU = c, mask, u
		}
	}
	if bestMask == -1 {
		return Plan{Currency: cat.Currency}
	}

	counts := make(map[variant]int64)
	for u := bestU; u > 0 && pick[u] != -1; u = prev[u] {
		counts[repeat[pick[u]]]++
	}
	for i, v := range once {
		if bestMask&(1<<i) != 0 {
			counts[v]++
		}
	}
	return buildPlan(cat, counts)
}

// MaxUnitsUnderBudget computes the most units budgetCents buys, tax included.
func MaxUnitsUnderBudget(cat Catalog, budgetCents int64, first FirstTimeState) Plan {
	repeat, once := variants(cat, first)
	if budgetCents <= 0 || len(repeat)+len(once) == 0 {
		return Plan{Currency: cat.Currency}
	}

	// Cap the subtotal so that subtotal plus rounded tax fits the budget.
	spend := budgetCents
	for spend > 0 {
		if _, total := applyTax(spend, cat.TaxRate); total <= budgetCents {
			break
		}
		spend--
	}

	// dp[c]: max units of repeatable packs with subtotal at most c.
	dp := make([]int64, spend+1)
	choose := make([]int, spend+1)
	for c := int64(0); c <= spend; c++ {
		choose[c] = -1
		if c > 0 {
			dp[c] = dp[c-1]
		}
		for i, v := range repeat {
			if v.price <= c {
				if u := dp[c-v.price] + v.units; u > dp[c] {
					dp[c], choose[c] = u, i
				}
			}
		}
	}

	bestUnits, bestMask, bestC := int64(-1), -1, int64(0)
	for mask := 0; mask < 1<<len(once); mask++ {
		units, price := subsetTotals(once, mask)
		if price > spend {
			continue
		}
		if u := units + dp[spend-price]; u > bestUnits {
			bestUnits, bestMask, bestC = u, mask, spend-price
		}
	}

	counts := make(map[variant]int64)
	for c := bestC; c > 0; {
		if choose[c] == -1 {
			c--
			continue
		}
		v := repeat[choose[c]]
		counts[v]++
		c -= v.price
	}
	for i, v := range once {
		if bestMask&(1<<i) != 0 {
			counts[v]++
		}
	}
	return buildPlan(cat, counts)
}

func buildPlan(cat Catalog, counts map[variant]int64) Plan {
	plan := Plan{Currency: cat.Currency}
	for v, qty := range counts {
		sub := v.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:    v.id,
			Name:      v.name,
			Qty:       qty,
			UnitPrice: v.price,
			PackUnits: v.units,
			Subtotal:  sub,
		})
		plan.SubCents += sub
		plan.TotalUnits += v.units * qty
	}
	sort.Slice(plan.Purchases, func(a, b int) bool { return plan.Purchases[a].PackID < plan.Purchases[b].PackID })
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, cat.TaxRate)
	return plan
}
