package recorder

import "context"

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(context.Context, *RunRecord) error           { return nil }
func (n *NoopRecorder) RecordDelivery(context.Context, *DeliveryEvent) error  { return nil }
func (n *NoopRecorder) RecentPrices(context.Context, int) ([]float64, error)  { return nil, nil }
func (n *NoopRecorder) RecentRuns(context.Context, int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                          { return nil }
