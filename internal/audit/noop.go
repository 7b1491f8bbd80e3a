package audit

// NoopRecorder is a no-op implementation used when no audit database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRoll(_ *RollEvent) error       { return nil }
func (n *NoopRecorder) RecordPayment(_ *PaymentEvent) error { return nil }
func (n *NoopRecorder) Close() error                        { return nil }
