package ports

import "context"

// TxManager runs fn in one transaction. Repositories called with the ctx
// handed to fn join that transaction; a non-nil return rolls it back.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
