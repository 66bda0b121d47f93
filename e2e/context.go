package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP state against a running server.
// Tokens are kept per email so a scenario can switch personas.
type TestContext struct {
	baseURL  string
	client   *http.Client
	status   int
	body     []byte
	tokens   map[string]string
	current  string
	memory   map[string]string
	password string
	runID    string
	admin    [2]string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
		tokens:   make(map[string]string),
		memory:   make(map[string]string),
		password: "correct-horse-battery",
		runID:    newRunID(),
	}
}

func newRunID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// WithAdmin sets the seed admin credentials used by admin steps.
func (tc *TestContext) WithAdmin(email, password string) *TestContext {
	tc.admin = [2]string{email, password}
	return tc
}

func (tc *TestContext) AdminCredentials() (string, string) {
	return tc.admin[0], tc.admin[1]
}

// Unique makes a feature value distinct per scenario so reruns against a
// persistent database do not collide on emails or document hashes.
func (tc *TestContext) Unique(value string) string {
	if local, domain, ok := strings.Cut(value, "@"); ok {
		return local + "+" + tc.runID + "@" + domain
	}
	return value + "-" + tc.runID
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.body = nil
	tc.current = ""
	tc.tokens = make(map[string]string)
	tc.memory = make(map[string]string)
	tc.runID = newRunID()
}

func (tc *TestContext) do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tc.GetAccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.do(http.MethodPost, path, body, nil)
}

func (tc *TestContext) PATCH(path string, body interface{}) error {
	return tc.do(http.MethodPatch, path, body, nil)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) GetStatusCode() int {
	return tc.status
}

func (tc *TestContext) GetResponseBody() []byte {
	return tc.body
}

// GetResponseField reads a top-level field from the last JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(tc.body, &payload); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := payload[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response: %s", field, tc.body)
	}
	return v, nil
}

func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

func (tc *TestContext) Password() string {
	return tc.password
}

func (tc *TestContext) SetToken(email, token string) {
	tc.tokens[email] = token
	tc.current = email
}

// UseIdentity switches the persona used for subsequent requests.
func (tc *TestContext) UseIdentity(email string) error {
	if _, ok := tc.tokens[email]; !ok {
		return fmt.Errorf("no signed-in session for %s", email)
	}
	tc.current = email
	return nil
}

func (tc *TestContext) SignOut() {
	tc.current = ""
}

func (tc *TestContext) GetAccessToken() string {
	return tc.tokens[tc.current]
}

func (tc *TestContext) Remember(name, value string) {
	tc.memory[name] = value
}

func (tc *TestContext) Recall(name string) (string, error) {
	v, ok := tc.memory[name]
	if !ok {
		return "", fmt.Errorf("nothing remembered as %q", name)
	}
	return v, nil
}
