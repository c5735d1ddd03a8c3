package port

import "context"

// ObjectStorage abstracts read access to the document store.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
