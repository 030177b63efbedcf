package kafka

import "context"

type ResultEvents interface {
	PublishResult(ctx context.Context, ev ResultEvent) error
}
