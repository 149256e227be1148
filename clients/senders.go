package clients

import (
	"ChintuIdrive/server-surveillance/actions"
	"ChintuIdrive/server-surveillance/conf"
	"context"
	"fmt"
)

// NewSenders builds one sender per enabled notification section. With
// nothing enabled the monitor falls back to logging only.
func NewSenders(ctx context.Context, config *conf.Config) ([]actions.Sender, error) {
	tc := TransportConfig{
		ConnReadDeadline:  config.NotifyTimeout(),
		ConnWriteDeadline: config.NotifyTimeout(),
	}

	var senders []actions.Sender
	if config.Email.Enabled {
		senders = append(senders, NewEmailClient(config.Email, tc))
	}
	if config.Webhook.Enabled {
		senders = append(senders, NewWebhookClient(config.Webhook, config.NodeId, tc))
	}
	if config.S3Archive.Enabled {
		s3Client, err := NewS3Client(ctx, config.S3Archive, config.NodeId)
		if err != nil {
			return nil, fmt.Errorf("s3 archive: %w", err)
		}
		senders = append(senders, s3Client)
	}
	if config.MinioArchive.Enabled {
		minioClient, err := NewMinioClient(config.MinioArchive, config.NodeId, tc)
		if err != nil {
			return nil, fmt.Errorf("minio archive: %w", err)
		}
		senders = append(senders, minioClient)
	}

	if len(senders) == 0 {
		senders = append(senders, actions.LogSender{})
	}
	return senders, nil
}
