package gacha

import (
	"testing"
	"time"
)

func timeAt(year int) time.Time { return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC) }

// countingRNG records how many values were drawn.
type countingRNG struct {
	v     float64
	draws int
}

func (c *countingRNG) Float64() float64 {
	c.draws++
	return c.v
}

func TestRateUpPicker(t *testing.T) {
	b := limitedBanner("limited-a")

	win := &countingRNG{v: 0.2}
	p := NewRateUpPicker(b, win)
	if !p.Pick(RarityUR, false) {
		t.Fatalf("0.2 < 0.5 must win the rate-up")
	}
	if p.Pick(RaritySR, false) {
		t.Fatalf("no featured SR unit, never featured")
	}
	if win.draws != 1 {
		t.Fatalf("rarities without featured units must not draw, draws=%d", win.draws)
	}

	lose := NewRateUpPicker(b, constRNG(0.7))
	if lose.Pick(RaritySSR, false) {
		t.Fatalf("0.7 must lose the rate-up")
	}
	if !lose.Pick(RaritySR, true) {
		t.Fatalf("guaranteed always featured")
	}

	b.RateUpShare = 0.75
	if !NewRateUpPicker(b, constRNG(0.7)).Pick(RaritySSR, false) {
		t.Fatalf("banner share must override the default")
	}
}

func TestRateUpPickerUnit(t *testing.T) {
	b := limitedBanner("limited-a")
	b.Featured = append(b.Featured, FeaturedUnit{ID: "vesper", Name: "Vesper", Rarity: RarityUR})

	u, ok := NewRateUpPicker(b, constRNG(0.6)).Unit(RarityUR)
	if !ok || u.ID != "vesper" {
		t.Fatalf("unit=%+v ok=%v", u, ok)
	}
	single := &countingRNG{v: 0.6}
	u, ok = NewRateUpPicker(b, single).Unit(RaritySSR)
	if !ok || u.ID != "kestrel" || single.draws != 0 {
		t.Fatalf("single candidate: %+v draws=%d", u, single.draws)
	}
	if _, ok := NewRateUpPicker(b, constRNG(0)).Unit(RarityN); ok {
		t.Fatalf("no N featured units")
	}
}

func TestRateUpPickerOffStreak(t *testing.T) {
	b := limitedBanner("limited-a")
	b.MaxOffStreak = 2
	st := &BannerState{}

	lose := &countingRNG{v: 0.9}
	p := NewRateUpPicker(b, lose)
	p.Track(st)
	for i := 0; i < 2; i++ {
		if p.Pick(RaritySSR, false) {
			t.Fatalf("loss %d: 0.9 must lose the rate-up", i+1)
		}
	}
	if st.OffStreak != 2 {
		t.Fatalf("off streak = %d, want 2", st.OffStreak)
	}
	if p.Pick(RaritySR, false) || st.OffStreak != 2 {
		t.Fatalf("rarities without featured units leave the streak alone, streak=%d", st.OffStreak)
	}

	// a fresh picker on the same state still owes the hit
	next := NewRateUpPicker(b, lose)
	next.Track(st)
	draws := lose.draws
	if !next.Pick(RarityUR, false) {
		t.Fatalf("hit after %d losses must be featured", b.MaxOffStreak)
	}
	if lose.draws != draws || st.OffStreak != 0 {
		t.Fatalf("owed hit must not draw and must clear the streak: draws=%d streak=%d", lose.draws-draws, st.OffStreak)
	}

	st.OffStreak = 1
	if !next.Pick(RarityUR, true) || st.OffStreak != 0 {
		t.Fatalf("guaranteed hit clears the streak, streak=%d", st.OffStreak)
	}
}

func TestRateUpPickerOffStreakDisabled(t *testing.T) {
	b := limitedBanner("limited-a")
	st := &BannerState{}
	p := NewRateUpPicker(b, constRNG(0.9))
	p.Track(st)
	for i := 0; i < 5; i++ {
		if p.Pick(RaritySSR, false) {
			t.Fatalf("pick %d: no guarantee without max_off_streak", i+1)
		}
	}
	if st.OffStreak != 0 {
		t.Fatalf("streak must not be tracked, got %d", st.OffStreak)
	}
}
