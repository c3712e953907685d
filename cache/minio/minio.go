// Package minio implements the client-cache blob store on MinIO or any
// S3-compatible object storage: one object per dataset id under a root
// prefix.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/ai8future/blindbench/cache"
)

// api is the narrow client surface the store consumes, so tests can
// substitute a fake without a running MinIO server.
type api interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// clientWrapper adapts *minio.Client to the api interface.
type clientWrapper struct{ c *minio.Client }

func (w clientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w clientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return w.c.GetObject(ctx, bucketName, objectName, opts)
}

func (w clientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

func (w clientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

// Store implements cache.Store on object storage.
type Store struct {
	api    api
	bucket string
	prefix string
}

// NewStore creates a MinIO-backed cache store. rootPrefix is prepended to
// all object names (e.g. "bench-cache/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{api: clientWrapper{c: client}, bucket: bucket, prefix: rootPrefix}
}

// newStoreWithAPI allows injecting a fake client in tests.
func newStoreWithAPI(a api, bucket, rootPrefix string) *Store {
	return &Store{api: a, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) key(datasetID string) string {
	return path.Join(s.prefix, datasetID)
}

// Get reads the cache blob for a dataset; a missing object maps to
// cache.ErrNotFound.
func (s *Store) Get(ctx context.Context, datasetID string) ([]byte, error) {
	key := s.key(datasetID)

	// Stat first: GetObject defers existence errors until the first read.
	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, cache.ErrNotFound
		}
		return nil, err
	}

	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	blob, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, cache.ErrNotFound
		}
		return nil, err
	}
	return blob, nil
}

// Put writes the cache blob for a dataset.
func (s *Store) Put(ctx context.Context, datasetID string, blob []byte) error {
	_, err := s.api.PutObject(ctx, s.bucket, s.key(datasetID),
		bytes.NewReader(blob), int64(len(blob)), minio.PutObjectOptions{})
	return err
}

// Delete removes the cache blob. Removing an absent blob is a no-op.
func (s *Store) Delete(ctx context.Context, datasetID string) error {
	err := s.api.RemoveObject(ctx, s.bucket, s.key(datasetID), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}
