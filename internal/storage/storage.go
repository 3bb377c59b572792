package storage

import (
	"context"
	"io"
)

// Store persists uploaded payment proofs and returns a URL clients and admins
// can fetch them from.
type Store interface {
	SavePaymentProof(ctx context.Context, bookingID, filename string, file io.Reader, size int64) (string, error)
}
