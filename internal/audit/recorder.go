// Package audit records roll and payment outcomes for later review.
package audit

import (
	"time"

	"github.com/xtding233/gacha-core/internal/currency"
	"github.com/xtding233/gacha-core/internal/gacha"
)

// RollEvent is one resolved pull.
type RollEvent struct {
	Session  string
	Banner   string
	StateKey string
	Pull     int
	Rarity   gacha.Rarity
	Featured bool
	Unit     string // featured unit id, empty for off-banner hits
	Trigger  gacha.PityTrigger
	Counters gacha.PityCounters
	At       time.Time
}

// PaymentEvent is one attempt to pay for pulls, successful or not.
type PaymentEvent struct {
	Session    string
	Banner     string
	Currency   string
	Cost       int64
	OK         bool
	PaidDirect int64
	FromHigher int64
	Remaining  int64
	Hops       []HopRecord
	Error      string
	At         time.Time
}

// HopRecord is a cascade hop with tier names resolved.
type HopRecord struct {
	From     string
	To       string
	Units    int64
	Produced int64
}

// Hops converts cascade hops to records using the ladder's tier names.
func Hops(l *currency.Ladder, hops []currency.Hop) []HopRecord {
	out := make([]HopRecord, 0, len(hops))
	for _, h := range hops {
		out = append(out, HopRecord{From: l.Name(h.From), To: l.Name(h.To), Units: h.Units, Produced: h.Produced})
	}
	return out
}

// Recorder persists audit events.
type Recorder interface {
	RecordRoll(evt *RollEvent) error
	RecordPayment(evt *PaymentEvent) error
	Close() error
}
