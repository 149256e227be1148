package clients

import (
	"ChintuIdrive/server-surveillance/actions"
	"ChintuIdrive/server-surveillance/dto"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go/aws/endpoints"
)

// S3Client archives each notification as a gzipped JSON object in an S3
// compatible bucket.
type S3Client struct {
	client *s3.Client
	bucket string
	prefix string
	nodeId string
	now    func() time.Time
}

func NewS3Client(ctx context.Context, archiveConfig dto.S3ArchiveConfig, nodeId string) (*S3Client, error) {
	region := archiveConfig.Region
	if region == "" {
		region = endpoints.UsEast1RegionID
	}

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(archiveConfig.AccessKey, archiveConfig.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if archiveConfig.Endpoint != "" {
			o.BaseEndpoint = aws.String(withScheme(archiveConfig.Endpoint))
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client: client,
		bucket: archiveConfig.Bucket,
		prefix: archiveConfig.Prefix,
		nodeId: nodeId,
		now:    time.Now,
	}, nil
}

func (s *S3Client) Name() string { return "s3-archive" }

func (s *S3Client) Send(ctx context.Context, subject, body string) error {
	at := s.now()
	payload, err := encodeNotification(actions.NewSystemNotification(s.nodeId, subject, body, at))
	if err != nil {
		return err
	}

	key := archiveKey(s.prefix, s.nodeId, at)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(payload),
		ContentType:     aws.String(archiveContentType),
		ContentEncoding: aws.String(archiveContentEncoding),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// withScheme defaults bare host:port endpoints to https.
func withScheme(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}
