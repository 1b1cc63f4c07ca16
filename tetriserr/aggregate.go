package tetriserr

import (
	"github.com/hashicorp/go-multierror"
)

// Aggregator collects zero or more errors from independent operations (e.g.
// per-worker teardown) and reports them as a single error, grounded on the
// corpus's use of hashicorp/go-multierror for exactly this "close a fleet
// of resources and report everything that went wrong" shape.
type Aggregator struct {
	err *multierror.Error
}

// Add appends err to the aggregate if it is non-nil.
func (a *Aggregator) Add(err error) {
	if err == nil {
		return
	}
	a.err = multierror.Append(a.err, err)
}

// ErrorOrNil returns nil if nothing was added, otherwise the aggregate error.
func (a *Aggregator) ErrorOrNil() error {
	if a.err == nil {
		return nil
	}
	return a.err.ErrorOrNil()
}
