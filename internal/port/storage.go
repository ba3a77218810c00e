package port

import "context"

// ObjectStorage abstracts artifact retrieval from cloud object storage.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
