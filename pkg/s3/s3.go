package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/google/uuid"
	"video-api/pkg/models"
)

// Archiver copies the last-known state of deleted videos to an S3 bucket.
type Archiver struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
}

// NewArchiver builds an archiver backed by the default AWS credential chain.
func NewArchiver(region, bucket, prefix string) (*Archiver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewArchiverWithUploader(s3manager.NewUploader(sess), bucket, prefix), nil
}

func NewArchiverWithUploader(uploader s3manageriface.UploaderAPI, bucket, prefix string) *Archiver {
	return &Archiver{uploader: uploader, bucket: bucket, prefix: prefix}
}

// ArchiveVideo uploads video as JSON and returns the object location.
func (a *Archiver) ArchiveVideo(ctx context.Context, video models.Video) (string, error) {
	body, err := json.Marshal(video)
	if err != nil {
		return "", fmt.Errorf("failed to encode video %d: %w", video.ID, err)
	}

	key := a.key(video.ID)
	result, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return result.Location, nil
}

func (a *Archiver) key(id int64) string {
	return path.Join(a.prefix, strconv.FormatInt(id, 10), uuid.New().String()+".json")
}
