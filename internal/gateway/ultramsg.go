package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UltraMsg sends WhatsApp messages through the UltraMsg.com HTTP API using
// form-encoded POSTs against per-instance chat and image endpoints.
type UltraMsg struct {
	client     *http.Client
	baseURL    string
	instanceID string
	token      string
	timeout    time.Duration
}

func NewUltraMsg(baseURL, instanceID, token string, timeout time.Duration) *UltraMsg {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UltraMsg{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		instanceID: instanceID,
		token:      token,
		timeout:    timeout,
	}
}

func (u *UltraMsg) SendText(phone, body string) error {
	form := url.Values{}
	form.Set("token", u.token)
	form.Set("to", FormatIntlNoPlus(phone))
	form.Set("body", body)

	return u.post(u.endpoint("messages/chat"), form)
}

func (u *UltraMsg) SendImage(phone, imageBase64, caption string) error {
	form := url.Values{}
	form.Set("token", u.token)
	form.Set("to", FormatIntlNoPlus(phone))
	form.Set("image", "data:image/png;base64,"+imageBase64)
	if caption != "" {
		form.Set("caption", caption)
	}

	return u.post(u.endpoint("messages/image"), form)
}

// endpoint tolerates base URLs that already embed the instance id
// (e.g. https://api.ultramsg.com/instance148630).
func (u *UltraMsg) endpoint(path string) string {
	if strings.Contains(u.baseURL, u.instanceID) {
		return u.baseURL + "/" + path
	}
	return u.baseURL + "/" + u.instanceID + "/" + path
}

func (u *UltraMsg) post(endpoint string, form url.Values) error {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	return decideOutcome(resp.StatusCode, body)
}

// decideOutcome interprets an UltraMsg response. The API is not consistent:
// successes may carry "sent": true/"true", an "id" or a "messageId"; errors
// may carry "error", "errorMessage" or "message" with a 200 status. The HTTP
// status is only consulted when the body settles nothing.
func decideOutcome(status int, body []byte) error {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed != nil {
		if sentOK(parsed) {
			return nil
		}
		for _, key := range []string{"error", "errorMessage", "message"} {
			if v, ok := parsed[key]; ok && truthy(v) {
				return fmt.Errorf("gateway rejected message: %v", v)
			}
		}
		if parsed["sent"] == false {
			return fmt.Errorf("gateway reported message not sent")
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("gateway returned status %d", status)
	}
	return nil
}

func sentOK(parsed map[string]interface{}) bool {
	if parsed["sent"] == true || parsed["sent"] == "true" {
		return true
	}
	if truthy(parsed["id"]) || truthy(parsed["messageId"]) {
		return true
	}
	if parsed["error"] == false && parsed["sent"] != false {
		return true
	}
	return false
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
