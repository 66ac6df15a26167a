package ports

import "context"

// StoredBlob describes a binary durably stored by the blob provider.
type StoredBlob struct {
	URL  string
	Size int64
}

// BlobStore is the object-storage service the catalog writes audio binaries to.
type BlobStore interface {
	Store(ctx context.Context, payload []byte, name string) (StoredBlob, error)
}
