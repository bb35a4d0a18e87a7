package media

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"vidtube/internal/config"
)

// Image kinds and the bounding box each is resized to fit before upload.
const (
	KindAvatar = "avatars"
	KindCover  = "covers"
)

var maxBounds = map[string][2]int{
	KindAvatar: {512, 512},
	KindCover:  {1920, 640},
}

// Uploader stores processed images on an external media host and returns a
// public URL for each.
type Uploader interface {
	UploadImage(ctx context.Context, kind string, data []byte) (string, error)
}

// S3Uploader uploads images to an S3-compatible bucket (MinIO in development).
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader builds an uploader from the media section of cfg.
func NewS3Uploader(ctx context.Context, cfg *config.Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.MediaRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.MediaAccessKey,
			cfg.MediaSecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load media credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.MediaEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.MediaEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:        client,
		bucket:        cfg.MediaBucket,
		publicBaseURL: cfg.MediaPublicBaseURL,
	}, nil
}

// UploadImage decodes data, bounds it to the kind's maximum dimensions,
// re-encodes it as JPEG and stores it under a date-partitioned key.
func (u *S3Uploader) UploadImage(ctx context.Context, kind string, data []byte) (string, error) {
	bounds, ok := maxBounds[kind]
	if !ok {
		return "", fmt.Errorf("unknown image kind %q", kind)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	img = imaging.Fit(img, bounds[0], bounds[1], imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	key := storageKey(kind)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}

func storageKey(kind string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s.jpg", kind, d.Year(), d.Month(), d.Day(), uuid.New())
}
