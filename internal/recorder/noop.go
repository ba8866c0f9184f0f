package recorder

import "context"

// NoopRecorder discards every decision.
type NoopRecorder struct{}

func (NoopRecorder) RecordSearch(context.Context, Decision) error { return nil }
func (NoopRecorder) Close() error                                 { return nil }
