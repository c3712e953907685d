package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai8future/blindbench/cache"
)

type fakeAPI struct {
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: make(map[string][]byte)}
}

func noSuchKey() error {
	return minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
}

func (f *fakeAPI) PutObject(_ context.Context, _, objectName string, reader io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	blob, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[objectName] = blob
	return minio.UploadInfo{Key: objectName, Size: int64(len(blob))}, nil
}

func (f *fakeAPI) GetObject(_ context.Context, _, objectName string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	blob, ok := f.objects[objectName]
	if !ok {
		return nil, noSuchKey()
	}
	return io.NopCloser(bytes.NewReader(blob)), nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, objectName)
	return nil
}

func (f *fakeAPI) StatObject(_ context.Context, _, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	blob, ok := f.objects[objectName]
	if !ok {
		return minio.ObjectInfo{}, noSuchKey()
	}
	return minio.ObjectInfo{Key: objectName, Size: int64(len(blob))}, nil
}

func TestStore_RoundTrip(t *testing.T) {
	api := newFakeAPI()
	s := newStoreWithAPI(api, "bench", "bench-cache")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "persons", []byte("blob")))
	got, err := s.Get(ctx, "persons")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)

	// Object names live under the root prefix.
	assert.Contains(t, api.objects, "bench-cache/persons")
}

func TestStore_GetMissingMapsToNotFound(t *testing.T) {
	s := newStoreWithAPI(newFakeAPI(), "bench", "bench-cache")

	_, err := s.Get(context.Background(), "persons")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestStore_GetTransportErrorPassedThrough(t *testing.T) {
	api := newFakeAPI()
	api.objects["bench-cache/persons"] = []byte("blob")
	api.getErr = errors.New("connection refused")
	s := newStoreWithAPI(api, "bench", "bench-cache")

	_, err := s.Get(context.Background(), "persons")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	api := newFakeAPI()
	s := newStoreWithAPI(api, "bench", "bench-cache")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "persons", []byte("blob")))
	require.NoError(t, s.Delete(ctx, "persons"))

	_, err := s.Get(ctx, "persons")
	require.ErrorIs(t, err, cache.ErrNotFound)

	// Deleting an absent object stays a no-op.
	require.NoError(t, s.Delete(ctx, "persons"))
}

func TestStore_EmptyPrefix(t *testing.T) {
	api := newFakeAPI()
	s := newStoreWithAPI(api, "bench", "")

	require.NoError(t, s.Put(context.Background(), "persons", []byte("x")))
	assert.Contains(t, api.objects, "persons")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("plain error")))
}
