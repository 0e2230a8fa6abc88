package ports

import "context"

type CSRFProtector interface {
	Issue(ctx context.Context) (string, error)
	Validate(ctx context.Context, token string) error
}
