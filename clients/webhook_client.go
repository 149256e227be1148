package clients

import (
	"ChintuIdrive/server-surveillance/actions"
	"ChintuIdrive/server-surveillance/dto"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookClient posts every notification as a JSON SystemNotification.
type WebhookClient struct {
	url    string
	nodeId string
	client *http.Client
	now    func() time.Time
}

func NewWebhookClient(webhookConfig dto.WebhookConfig, nodeId string, tc TransportConfig) *WebhookClient {
	return &WebhookClient{
		url:    webhookConfig.URL,
		nodeId: nodeId,
		client: &http.Client{Transport: tc.NewTransport()},
		now:    time.Now,
	}
}

func (wc *WebhookClient) Name() string { return "webhook" }

func (wc *WebhookClient) Send(ctx context.Context, subject, body string) error {
	notification := actions.NewSystemNotification(wc.nodeId, subject, body, wc.now())
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	res, err := FireRequest(ctx, wc.client, http.MethodPost, wc.url, payload)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("webhook %s returned %s: %s", wc.url, res.Status, bytes.TrimSpace(msg))
	}
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func FireRequest(ctx context.Context, client *http.Client, method, url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")

	return client.Do(req)
}
