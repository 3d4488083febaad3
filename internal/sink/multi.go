package sink

import (
	"context"
	"errors"

	"github.com/snapwalk/snapwalk/internal/snapshot"
)

// Multi fans every result out to each wrapped sink, in order. Used when a
// database run also emits the CSV index.
type Multi struct {
	sinks []snapshot.Sink
}

// NewMulti combines sinks into one.
func NewMulti(sinks ...snapshot.Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Write stops at the first sink error.
func (m *Multi) Write(ctx context.Context, record snapshot.ResultRecord) error {
	for _, s := range m.sinks {
		if err := s.Write(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the joined errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
