package audit

import "context"

// Store is the durable append + filtered query capability the recorder
// depends on. The persistence engine behind it is out of scope; the memory
// implementation stands in for the opaque durable store.
//
// Error Contract:
// - Append returns nil on success and a wrapped infrastructure error otherwise.
// - Query returns matching records in stable insertion order.
type Store interface {
	Append(ctx context.Context, record *Record) error
	Query(ctx context.Context, filter Filter) ([]*Record, error)
}
