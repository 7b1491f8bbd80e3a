package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	_ "modernc.org/sqlite"

	"github.com/xtding233/gacha-core/internal/gacha"
	"github.com/xtding233/gacha-core/internal/logging"
)

// SQLiteRecorder persists audit events to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logging.OrNop(log), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info("audit recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rolls (
			id          TEXT PRIMARY KEY,
			session     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			banner      TEXT NOT NULL,
			state_key   TEXT NOT NULL,
			pull        INTEGER,
			rarity      TEXT NOT NULL,
			featured    INTEGER,
			unit        TEXT,
			pity        TEXT,
			sr_count    INTEGER,
			ssr_count   INTEGER,
			ur_count    INTEGER,
			prime_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rolls_session ON rolls(session)`,
		`CREATE INDEX IF NOT EXISTS idx_rolls_banner ON rolls(banner, rarity)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id          TEXT PRIMARY KEY,
			session     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			banner      TEXT,
			currency    TEXT NOT NULL,
			cost        INTEGER,
			ok          INTEGER,
			paid_direct INTEGER,
			from_higher INTEGER,
			remaining   INTEGER,
			detail      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_session ON payments(session)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) stamp(at time.Time) int64 {
	if at.IsZero() {
		at = r.now()
	}
	return at.UnixMilli()
}

func (r *SQLiteRecorder) RecordRoll(evt *RollEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := evt.Counters
	_, err := r.db.Exec(`INSERT INTO rolls
		(id, session, timestamp, banner, state_key, pull, rarity, featured, unit, pity,
		 sr_count, ssr_count, ur_count, prime_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), evt.Session, r.stamp(evt.At), evt.Banner, evt.StateKey, evt.Pull,
		evt.Rarity.String(), evt.Featured, evt.Unit, string(evt.Trigger),
		c.SR, c.SSR, c.UR, c.Prime,
	)
	return err
}

func (r *SQLiteRecorder) RecordPayment(evt *PaymentEvent) error {
	detail, err := paymentDetail(evt)
	if err != nil {
		return fmt.Errorf("encode payment detail: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO payments
		(id, session, timestamp, banner, currency, cost, ok, paid_direct, from_higher, remaining, detail)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), evt.Session, r.stamp(evt.At), evt.Banner, evt.Currency, evt.Cost,
		evt.OK, evt.PaidDirect, evt.FromHigher, evt.Remaining, detail,
	)
	return err
}

// paymentDetail encodes the cascade hops and failure reason as a JSON object.
func paymentDetail(evt *PaymentEvent) (string, error) {
	hops := make([]any, 0, len(evt.Hops))
	for _, h := range evt.Hops {
		hops = append(hops, map[string]any{
			"from":     h.From,
			"to":       h.To,
			"units":    float64(h.Units),
			"produced": float64(h.Produced),
		})
	}
	fields := map[string]any{"hops": hops}
	if evt.Error != "" {
		fields["error"] = evt.Error
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RarityCounts tallies the recorded rolls of a session by rarity.
func (r *SQLiteRecorder) RarityCounts(session string) (map[gacha.Rarity]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT rarity, COUNT(*) FROM rolls WHERE session = ? GROUP BY rarity`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[gacha.Rarity]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		rar, err := gacha.ParseRarity(name)
		if err != nil {
			return nil, err
		}
		out[rar] = n
	}
	return out, rows.Err()
}

// PaymentDetails returns the decoded detail object of the session's payments,
// oldest first.
func (r *SQLiteRecorder) PaymentDetails(session string) ([]map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT detail FROM payments WHERE session = ? ORDER BY timestamp, rowid`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var s structpb.Struct
		if err := protojson.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decode payment detail: %w", err)
		}
		out = append(out, s.AsMap())
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing audit recorder")
	return r.db.Close()
}

// NewSession returns a fresh audit session id.
func NewSession() string { return uuid.NewString() }
