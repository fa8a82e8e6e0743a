package ports

import "context"

// ImageFeed fetches random pet picture URLs from public APIs.
type ImageFeed interface {
	Dogs(ctx context.Context) ([]string, error)
	Cats(ctx context.Context) ([]string, error)
}
