package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/docupload/internal/server/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 30, 0, 0, time.FixedZone("x", -2*3600))
	assert.Equal(t, "users/u1/2026/03/08/d1", NewKey("u1", "d1", at))
}

type staticTokens struct{ err error }

func (s staticTokens) UploadToken(userID, documentID string) (string, error) {
	return userID + ":" + documentID, s.err
}

func TestLocalBackend_UploadParameters(t *testing.T) {
	b := NewLocalBackend(afero.NewMemMapFs(), "/data", "http://srv/document", staticTokens{})

	params, meta, err := b.UploadParameters(context.Background(), &models.Document{ID: "d1", UserID: "u1", StorageKey: "users/u1/d1"})
	require.NoError(t, err)

	assert.Equal(t, Parameters{URL: "http://srv/document", Method: http.MethodPut, Data: map[string]string{"token": "u1:d1"}}, params)
	assert.Equal(t, map[string]any{"key": "users/u1/d1"}, meta)

	b = NewLocalBackend(afero.NewMemMapFs(), "/data", "http://srv/document", staticTokens{err: errors.New("no key")})
	_, _, err = b.UploadParameters(context.Background(), &models.Document{ID: "d1"})
	assert.Error(t, err)
}

func TestLocalBackend_Store(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := NewLocalBackend(fs, "/data", "", staticTokens{})

	n, ct, err := b.Store(context.Background(), "users/u1/2026/01/01/d1", strings.NewReader("%PDF-1.7 body"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	assert.Equal(t, "application/pdf", ct)

	got, err := afero.ReadFile(fs, "/data/users/u1/2026/01/01/d1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(got))

	entries, err := afero.ReadDir(fs, "/data/users/u1/2026/01/01")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalBackend_StoreFailureLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := NewLocalBackend(fs, "/data", "", staticTokens{})

	_, _, err := b.Store(context.Background(), "users/u1/d1", io.MultiReader(strings.NewReader("partial"), failingReader{}))
	require.Error(t, err)

	entries, err := afero.ReadDir(fs, "/data/users/u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalBackend_StoreRejectsEscapingKeys(t *testing.T) {
	b := NewLocalBackend(afero.NewMemMapFs(), "/data", "", staticTokens{})

	for _, key := range []string{"../etc/passwd", "/abs/path", ""} {
		_, _, err := b.Store(context.Background(), key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func stubS3(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPre, origPost := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPostObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPostObject = origLoad, origNew, origPre, origPost
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		if lo.Region != "eu-central-1" {
			return aws.Config{}, errors.New("region not applied")
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(*s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func TestS3Backend_UploadParameters(t *testing.T) {
	stubS3(t)

	var gotBucket, gotKey string
	var gotExpires time.Duration
	presignPostObject = func(_ *s3.PresignClient, _ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		gotBucket, gotKey = *in.Bucket, *in.Key
		var o s3.PresignPostOptions
		for _, fn := range optFns {
			fn(&o)
		}
		gotExpires = o.Expires
		return &s3.PresignedPostRequest{
			URL:    "http://minio:9000/docs",
			Values: map[string]string{"key": *in.Key, "policy": "p", "x-amz-signature": "sig"},
		}, nil
	}

	b, err := NewS3Backend(context.Background(), S3Config{
		Region: "eu-central-1", Bucket: "docs", BaseEndpoint: "http://minio:9000", Expires: 5 * time.Minute,
	})
	require.NoError(t, err)

	params, meta, err := b.UploadParameters(context.Background(), &models.Document{ID: "d1", StorageKey: "users/u1/2026/01/01/d1"})
	require.NoError(t, err)

	assert.Equal(t, "docs", gotBucket)
	assert.Equal(t, "users/u1/2026/01/01/d1", gotKey)
	assert.Equal(t, 5*time.Minute, gotExpires)
	assert.Equal(t, http.MethodPost, params.Method)
	assert.Equal(t, "http://minio:9000/docs", params.URL)
	assert.Equal(t, "sig", params.Data["x-amz-signature"])
	assert.Equal(t, map[string]any{"bucket": "docs", "key": "users/u1/2026/01/01/d1"}, meta)
}

func TestS3Backend_Errors(t *testing.T) {
	stubS3(t)

	_, err := NewS3Backend(context.Background(), S3Config{Region: "us-east-1", BaseEndpoint: "http://minio:9000"})
	assert.Error(t, err)

	presignPostObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return nil, errors.New("signer down")
	}
	b, err := NewS3Backend(context.Background(), S3Config{Region: "eu-central-1", Bucket: "docs", BaseEndpoint: "http://minio:9000"})
	require.NoError(t, err)

	_, _, err = b.UploadParameters(context.Background(), &models.Document{StorageKey: "k"})
	assert.ErrorContains(t, err, "signer down")
}
