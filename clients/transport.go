package clients

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/minio/mc/pkg/deadlineconn"
	"github.com/minio/mc/pkg/limiter"
)

// TransportConfig tunes the HTTP transport shared by the webhook and
// object storage senders.
type TransportConfig struct {
	ConnReadDeadline  time.Duration
	ConnWriteDeadline time.Duration
	// bytes per second, 0 means unlimited
	UploadLimit   int64
	DownloadLimit int64
}

// NewTransport returns a round tripper with per-connection deadlines,
// optional bandwidth limits and transparent gzip handling.
func (tc TransportConfig) NewTransport() http.RoundTripper {
	var transport http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           newCustomDialContext(tc),
		MaxIdleConnsPerHost:   16,
		WriteBufferSize:       32 << 10,
		ReadBufferSize:        32 << 10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 10 * time.Second,
		// gzhttp below does the decoding
		DisableCompression: true,
	}

	transport = limiter.New(tc.UploadLimit, tc.DownloadLimit, transport)
	return gzhttp.Transport(transport)
}

type dialContext func(ctx context.Context, network, addr string) (net.Conn, error)

func newCustomDialContext(tc TransportConfig) dialContext {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 15 * time.Second,
		}

		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		dconn := deadlineconn.New(conn).
			WithReadDeadline(tc.ConnReadDeadline).
			WithWriteDeadline(tc.ConnWriteDeadline)

		return dconn, nil
	}
}
