package clients

import (
	"ChintuIdrive/server-surveillance/actions"
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/klauspost/compress/gzip"
)

const (
	archiveContentType     = "application/json"
	archiveContentEncoding = "gzip"
)

// archiveKey lays notifications out by node and day:
// <prefix>/<node>/2006/01/02/150405.000000000.json.gz
func archiveKey(prefix, nodeId string, at time.Time) string {
	at = at.UTC()
	if nodeId == "" {
		nodeId = "unknown-node"
	}
	name := fmt.Sprintf("%s.json.gz", at.Format("150405.000000000"))
	return path.Join(prefix, nodeId, at.Format("2006/01/02"), name)
}

func encodeNotification(notification actions.SystemNotification) ([]byte, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
