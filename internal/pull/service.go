// Package pull joins the currency ledger and the roll engine: it charges a
// banner's price through the payment cascade and then performs the pulls.
package pull

import (
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/gacha-core/internal/audit"
	"github.com/xtding233/gacha-core/internal/currency"
	gerrors "github.com/xtding233/gacha-core/internal/errors"
	"github.com/xtding233/gacha-core/internal/gacha"
	"github.com/xtding233/gacha-core/internal/logging"
)

// Service performs paid pulls.
type Service struct {
	conv    *currency.Converter
	rec     audit.Recorder
	log     *zap.Logger
	now     func() time.Time
	payOpts currency.PayOptions
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder sends every payment and pull to rec.
func WithRecorder(rec audit.Recorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.rec = rec
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = logging.OrNop(l) } }

// WithPayOptions overrides how the cascade may fund pulls. By default higher
// tiers may be broken down but the top tier may not.
func WithPayOptions(o currency.PayOptions) Option { return func(s *Service) { s.payOpts = o } }

// WithClock replaces time.Now for expiry checks and audit timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a pull service charging through conv.
func NewService(conv *currency.Converter, opts ...Option) *Service {
	s := &Service{
		conv:    conv,
		rec:     audit.NewNoopRecorder(),
		log:     zap.NewNop(),
		now:     time.Now,
		payOpts: currency.PayOptions{AllowDownFromHigher: true},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Request describes one purchase of pulls.
type Request struct {
	Banner *gacha.Banner
	Count  int
	// Session groups audit records; empty records under a fresh session.
	Session string
	// Rarity drives rarity draws. Featured drives rate-up and unit draws and
	// defaults to Rarity.
	Rarity   gacha.RandomSource
	Featured gacha.RandomSource
}

// Pull is one resolved pull. Unit is set for featured hits on a banner that
// features a unit of that rarity.
type Pull struct {
	gacha.RollResult
	Unit *gacha.FeaturedUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Result reports a purchase. On failure Wallet is the input wallet and no
// banner state has changed.
type Result struct {
	Wallet  currency.Wallet
	Payment currency.PaymentResult
	Pulls   []Pull
	Session string
}

// Pull charges req.Count pulls of req.Banner to w and performs them against
// states. Payment and pulls are all-or-nothing: when the payment fails no
// pull is made.
func (s *Service) Pull(w currency.Wallet, states gacha.StateMap, req Request) (Result, error) {
	l := s.conv.Ladder()
	res := Result{Wallet: l.Canonical(w), Session: req.Session}
	if res.Session == "" {
		res.Session = audit.NewSession()
	}

	b := req.Banner
	switch {
	case b == nil:
		return res, gerrors.Validation("no banner given")
	case req.Count <= 0:
		return res, gerrors.Validation("pull count must be positive, got %d", req.Count)
	case req.Rarity == nil:
		return res, gerrors.Wrap(gerrors.KindValidation, "no random source", gacha.ErrNoRandom)
	case b.Expired(s.now()):
		return res, gerrors.Validation("banner %s closed at %s", b.ID, b.ExpiresAt.Format(time.RFC3339)).
			WithContext("banner", b.ID)
	}
	tier, ok := l.Lookup(b.Cost.Currency)
	if !ok {
		return res, gerrors.Configuration("banner %s: cost currency %q is not a ledger tier", b.ID, b.Cost.Currency).
			WithContext("banner", b.ID)
	}

	cost := b.Cost.ForPulls(req.Count)
	pay := s.conv.PayForRoll(res.Wallet, tier, cost, s.payOpts)
	res.Payment = pay
	s.recordPayment(res.Session, b, pay)
	if !pay.OK {
		s.log.Info("pull payment refused",
			zap.String("banner", b.ID),
			zap.Int("count", req.Count),
			zap.Int64("cost", cost),
			zap.Error(pay.Err),
		)
		return res, pay.Err
	}
	res.Wallet = pay.Wallet

	featuredRNG := req.Featured
	if featuredRNG == nil {
		featuredRNG = req.Rarity
	}
	picker := gacha.NewRateUpPicker(b, featuredRNG)
	picker.Track(states.Resolve(b))

	rolls := gacha.MultiRoll(b, states, req.Count, req.Rarity, picker.Pick)
	res.Pulls = make([]Pull, 0, len(rolls))
	for _, r := range rolls {
		p := Pull{RollResult: r}
		if r.Featured {
			if u, ok := picker.Unit(r.Rarity); ok {
				p.Unit = &u
			}
		}
		if r.Trigger == gacha.TriggerHard {
			s.log.Debug("hard pity reached",
				zap.String("banner", b.ID),
				zap.Stringer("rarity", r.Rarity),
				zap.Bool("guaranteed_featured", r.Guaranteed),
			)
		}
		s.recordRoll(res.Session, b, p)
		res.Pulls = append(res.Pulls, p)
	}

	s.log.Info("pulls performed",
		zap.String("banner", b.ID),
		zap.String("state_key", b.StateKey()),
		zap.Int("count", req.Count),
		zap.Int64("cost", cost),
		zap.String("currency", l.Name(tier)),
		zap.Int("hops", len(pay.Detail.Hops)),
	)
	return res, nil
}

func (s *Service) recordPayment(session string, b *gacha.Banner, pay currency.PaymentResult) {
	l := s.conv.Ladder()
	evt := &audit.PaymentEvent{
		Session:    session,
		Banner:     b.ID,
		Currency:   l.Name(pay.Detail.Currency),
		Cost:       pay.Detail.Cost,
		OK:         pay.OK,
		PaidDirect: pay.Detail.PaidDirect,
		FromHigher: pay.Detail.FromHigher,
		Remaining:  pay.Detail.Remaining,
		Hops:       audit.Hops(l, pay.Detail.Hops),
		At:         s.now(),
	}
	if pay.Err != nil {
		evt.Error = pay.Err.Error()
	}
	if err := s.rec.RecordPayment(evt); err != nil {
		s.log.Warn("record payment failed", zap.String("banner", b.ID), zap.Error(err))
	}
}

func (s *Service) recordRoll(session string, b *gacha.Banner, p Pull) {
	evt := &audit.RollEvent{
		Session:  session,
		Banner:   b.ID,
		StateKey: b.StateKey(),
		Pull:     p.Pull,
		Rarity:   p.Rarity,
		Featured: p.Featured,
		Trigger:  p.Trigger,
		Counters: p.Counters,
		At:       s.now(),
	}
	if p.Unit != nil {
		evt.Unit = p.Unit.ID
	}
	if err := s.rec.RecordRoll(evt); err != nil {
		s.log.Warn("record roll failed", zap.String("banner", b.ID), zap.Error(err))
	}
}
