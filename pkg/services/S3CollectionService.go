package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/minzhangphoto/portfolio/pkg/models"
)

/*
SnapshotBucket is the slice of object storage the S3 loader needs: find the
newest collections snapshot and open it.
*/
type SnapshotBucket interface {
	LatestSnapshot(ctx context.Context) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Location(key string) string
}

type S3CollectionServiceConfig struct {
	Bucket SnapshotBucket
}

/*
S3CollectionService reads the collections array from a JSON snapshot in a
bucket instead of over HTTP. Same payload contract, same failure taxonomy.
*/
type S3CollectionService struct {
	bucket SnapshotBucket
}

func NewS3CollectionService(config S3CollectionServiceConfig) S3CollectionService {
	return S3CollectionService{
		bucket: config.Bucket,
	}
}

func (s S3CollectionService) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	var (
		err  error
		key  string
		body io.ReadCloser
		b    []byte
	)

	if key, err = s.bucket.LatestSnapshot(ctx); err != nil {
		return nil, models.NewNetworkFailure(s.bucket.Location(""), err)
	}

	source := s.bucket.Location(key)

	if body, err = s.bucket.Open(ctx, key); err != nil {
		return nil, models.NewNetworkFailure(source, err)
	}

	defer body.Close()

	if b, err = io.ReadAll(body); err != nil {
		return nil, models.NewNetworkFailure(source, err)
	}

	entries, err := ParseCollections(b)

	if err != nil {
		return nil, models.NewParseFailure(source, err)
	}

	slog.Info("loaded collections snapshot", "source", source, "count", len(entries))
	return entries, nil
}

type S3SnapshotBucketConfig struct {
	Bucket   string
	Prefix   string
	S3Client s3.S3Client
}

type S3SnapshotBucket struct {
	bucket   string
	prefix   string
	s3Client s3.S3Client
}

func NewS3SnapshotBucket(config S3SnapshotBucketConfig) S3SnapshotBucket {
	return S3SnapshotBucket{
		bucket:   config.Bucket,
		prefix:   config.Prefix,
		s3Client: config.S3Client,
	}
}

func (b S3SnapshotBucket) LatestSnapshot(ctx context.Context) (string, error) {
	var (
		err      error
		response s3.ListResponse
		validExt = []string{".json"}
	)

	response, err = b.s3Client.List(
		b.bucket,
		b.prefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			ext := strings.ToLower(filepath.Ext(aws.ToString(obj.Key)))
			return slices.IsInSlice(ext, validExt)
		}),
	)

	if err != nil {
		return "", fmt.Errorf("error listing collection snapshots in '%s': %w", b.bucket, err)
	}

	if len(response.Objects) == 0 {
		return "", fmt.Errorf("no collection snapshots found in '%s/%s'", b.bucket, b.prefix)
	}

	latest := response.Objects[0]

	for _, obj := range response.Objects[1:] {
		if obj.LastModified.After(latest.LastModified) {
			latest = obj
		}
	}

	return latest.Key, nil
}

func (b S3SnapshotBucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := b.s3Client.Get(
		b.bucket,
		key,
		getoptions.WithContext(ctx),
	)

	if err != nil {
		return nil, fmt.Errorf("error getting collection snapshot '%s': %w", key, err)
	}

	return object.Body, nil
}

func (b S3SnapshotBucket) Location(key string) string {
	if key == "" {
		return fmt.Sprintf("s3://%s/%s", b.bucket, b.prefix)
	}

	return fmt.Sprintf("s3://%s/%s", b.bucket, key)
}
