package feedback

import "context"

type Repo interface {
	Create(ctx context.Context, fb Feedback) error
	ListRecent(ctx context.Context, limit int) ([]Feedback, error)
}
