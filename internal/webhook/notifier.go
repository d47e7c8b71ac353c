package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/davidahmann/monetic/pkg/types"
)

const defaultTimeout = 5 * time.Second

// Notifier posts decisions to a configured webhook. Delivery is strictly
// best-effort: the only observable outcome is the returned status string, and
// no failure mode propagates as an error into the pipeline.
type Notifier struct {
	URL    string
	Client *http.Client
}

func NewNotifier(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Notifier{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type payload struct {
	Title    string            `json:"title"`
	Decision types.Decision    `json:"decision"`
	Ops      []types.Operation `json:"ops"`
}

// Notify posts the decision and ops. Returns "skipped (no webhook url)" when
// unconfigured, "webhook_status=NNN" on a response, and "webhook_error=..."
// when the request itself failed.
func (n *Notifier) Notify(ctx context.Context, decision types.Decision, ops []types.Operation) string {
	if n == nil || n.URL == "" {
		return "skipped (no webhook url)"
	}

	body, err := json.Marshal(payload{Title: "Reversal Decision", Decision: decision, Ops: ops})
	if err != nil {
		return fmt.Sprintf("webhook_error=%v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("webhook_error=%v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Sprintf("webhook_error=%v", err)
	}
	defer resp.Body.Close()

	return fmt.Sprintf("webhook_status=%d", resp.StatusCode)
}
