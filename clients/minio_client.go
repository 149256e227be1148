package clients

import (
	"ChintuIdrive/server-surveillance/actions"
	"ChintuIdrive/server-surveillance/dto"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/mc/pkg/probe"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReleaseTag is stamped at build time.
var ReleaseTag = "DEVELOPMENT.GOGET"

// MinioClient archives notifications to a MinIO bucket.
type MinioClient struct {
	client *minio.Client
	bucket string
	prefix string
	nodeId string
	now    func() time.Time
}

func NewMinioClient(archiveConfig dto.MinioArchiveConfig, nodeId string, tc TransportConfig) (*MinioClient, error) {
	tc.UploadLimit = archiveConfig.UploadLimit
	api, perr := newMinioAPI(archiveConfig, tc)
	if perr != nil {
		return nil, perr.Trace(archiveConfig.Endpoint).ToGoError()
	}
	return &MinioClient{
		client: api,
		bucket: archiveConfig.Bucket,
		prefix: archiveConfig.Prefix,
		nodeId: nodeId,
		now:    time.Now,
	}, nil
}

// newMinioAPI accepts either host:port or a full URL as endpoint. A URL
// scheme overrides the secure flag.
func newMinioAPI(archiveConfig dto.MinioArchiveConfig, tc TransportConfig) (*minio.Client, *probe.Error) {
	host := archiveConfig.Endpoint
	secure := archiveConfig.Secure
	if targetURL, e := url.Parse(archiveConfig.Endpoint); e == nil && targetURL.Host != "" {
		host = targetURL.Host
		secure = targetURL.Scheme == "https"
	}

	api, e := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(archiveConfig.AccessKey, archiveConfig.SecretKey, ""),
		Secure:    secure,
		Region:    "us-east-1",
		Transport: tc.NewTransport(),
	})
	if e != nil {
		return nil, probe.NewError(e)
	}
	api.SetAppInfo(filepath.Base(os.Args[0]), ReleaseTag)
	return api, nil
}

func (mc *MinioClient) Name() string { return "minio-archive" }

func (mc *MinioClient) Send(ctx context.Context, subject, body string) error {
	at := mc.now()
	payload, err := encodeNotification(actions.NewSystemNotification(mc.nodeId, subject, body, at))
	if err != nil {
		return err
	}

	key := archiveKey(mc.prefix, mc.nodeId, at)
	_, err = mc.client.PutObject(ctx, mc.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:     archiveContentType,
		ContentEncoding: archiveContentEncoding,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", mc.bucket, key, err)
	}
	return nil
}
