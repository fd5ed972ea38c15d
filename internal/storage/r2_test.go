package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dukerupert/postmark-transport/internal"
	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string]string
	err     error
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestR2Storage_Get(t *testing.T) {
	s := &R2Storage{client: &fakeObjects{objects: map[string]string{"logo.png": "png"}}, bucket: "mail"}

	rc, err := s.Get(context.Background(), "logo.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "png", string(body))

	_, err = s.Get(context.Background(), "missing.png")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestR2Storage_GetWrapsOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	s := &R2Storage{client: &fakeObjects{err: boom}, bucket: "mail"}

	_, err := s.Get(context.Background(), "logo.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewR2Storage_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  R2Config
		want error
	}{
		{name: "no account", cfg: R2Config{AccessKeyID: "k", SecretKey: "s", BucketName: "b"}, want: ErrR2AccountIDRequired},
		{name: "no credentials", cfg: R2Config{AccountID: "a", BucketName: "b"}, want: ErrR2CredentialsRequired},
		{name: "no bucket", cfg: R2Config{AccountID: "a", AccessKeyID: "k", SecretKey: "s"}, want: ErrR2BucketRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewR2Storage(tt.cfg)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestNewStorage_UnknownProvider(t *testing.T) {
	_, err := NewStorage(internal.StorageConfig{Provider: "ftp"})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
