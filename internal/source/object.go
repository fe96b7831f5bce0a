package source

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultS3Endpoint = "s3.amazonaws.com"

// ObjectSource reads the dataset from MinIO or any S3-compatible store.
type ObjectSource struct {
	client   *minio.Client
	endpoint string
	bucket   string
	key      string
}

// NewObjectSource creates a client for endpoint (AWS S3 when empty). Without
// an access key requests are sent anonymously, which works for public buckets.
func NewObjectSource(bucket, key string, o S3Options) (*ObjectSource, error) {
	endpoint := o.Endpoint
	if endpoint == "" {
		endpoint = defaultS3Endpoint
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.Secure,
		Region: o.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &ObjectSource{client: client, endpoint: endpoint, bucket: bucket, key: key}, nil
}

func (s *ObjectSource) Location() string { return "s3://" + s.bucket + "/" + s.key }

func (s *ObjectSource) Fetch(ctx context.Context) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return "", s.classify(err)
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return "", s.classify(err)
	}
	return string(b), nil
}

func (s *ObjectSource) classify(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode != 0 {
		text := fmt.Sprintf("%d", resp.StatusCode)
		if resp.Code != "" {
			text += " " + resp.Code
		}
		return &FetchError{Status: resp.StatusCode, StatusText: text, Location: s.Location()}
	}
	return &UnreachableError{Host: s.endpoint, Err: err}
}
