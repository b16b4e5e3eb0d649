package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/walletvault/internal/common"
)

type fakeS3 struct {
	objects map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	api := newFakeS3()
	store := &S3Store{client: api, bucket: "vault"}
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "f-1", "ciphertext"))

	got, err := store.Get(ctx, "f-1")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", got)

	// objects live under the files/ prefix
	_, ok := api.objects["files/f-1"]
	assert.True(t, ok)
}

func TestS3Store_GetMissing(t *testing.T) {
	store := &S3Store{client: newFakeS3(), bucket: "vault"}

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestS3Store_Delete(t *testing.T) {
	api := newFakeS3()
	store := &S3Store{client: api, bucket: "vault"}
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "f-1", "ciphertext"))
	require.NoError(t, store.Delete(ctx, "f-1"))

	_, err := store.Get(ctx, "f-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
