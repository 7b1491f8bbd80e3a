package gacha

// RateUpPicker is the default FeaturedFunc: guaranteed hits are always
// featured; other hits are featured with the banner's rate-up share, and only
// when the banner features a unit of that rarity.
//
// With a tracked state and a banner MaxOffStreak, the picker also counts lost
// rate-up draws and makes the next eligible hit featured once the streak
// reaches MaxOffStreak.
type RateUpPicker struct {
	banner *Banner
	rng    RandomSource
	state  *BannerState
}

// NewRateUpPicker draws from rng, which should be separate from the rarity source.
func NewRateUpPicker(b *Banner, rng RandomSource) *RateUpPicker {
	return &RateUpPicker{banner: b, rng: rng}
}

// Track points the off-streak bookkeeping at st, normally the state the
// rolls mutate. A nil st turns it off.
func (p *RateUpPicker) Track(st *BannerState) { p.state = st }

// Pick implements FeaturedFunc.
func (p *RateUpPicker) Pick(r Rarity, guaranteed bool) bool {
	if guaranteed {
		p.settle(true)
		return true
	}
	if len(p.banner.FeaturedOf(r)) == 0 {
		return false
	}
	if p.owed() {
		p.settle(true)
		return true
	}
	hit, err := Draw(p.banner.rateUpShare(), p.rng)
	hit = err == nil && hit
	p.settle(hit)
	return hit
}

func (p *RateUpPicker) streakOn() bool {
	return p.state != nil && p.banner.MaxOffStreak > 0
}

func (p *RateUpPicker) owed() bool {
	return p.streakOn() && p.state.OffStreak >= p.banner.MaxOffStreak
}

func (p *RateUpPicker) settle(won bool) {
	if !p.streakOn() {
		return
	}
	if won {
		p.state.OffStreak = 0
	} else {
		p.state.OffStreak++
	}
}

// Unit chooses which featured unit of rarity r a featured hit is, uniformly.
// With a single candidate no value is drawn.
func (p *RateUpPicker) Unit(r Rarity) (FeaturedUnit, bool) {
	units := p.banner.FeaturedOf(r)
	switch len(units) {
	case 0:
		return FeaturedUnit{}, false
	case 1:
		return units[0], true
	}
	i := int(clampDraw(p.rng.Float64()) * float64(len(units)))
	return units[min(i, len(units)-1)], true
}
