package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trustestate/pkg/platform/circuit"
)

var tracer = otel.Tracer("trustestate/verification")

// ErrUnavailable is returned while the oracle circuit is open or the oracle
// cannot be reached.
var ErrUnavailable = errors.New("verification oracle unavailable")

const (
	defaultTimeout       = 10 * time.Second
	defaultProbeInterval = 15 * time.Second
	maxResponseBytes     = 1 << 20
)

// HTTPOracle calls a JSON verification service. Consecutive failures open a
// circuit; while open, calls fail fast except for one probe per interval.
type HTTPOracle struct {
	baseURL       string
	client        *http.Client
	breaker       *circuit.Breaker
	logger        *slog.Logger
	probeInterval time.Duration

	probeMu   sync.Mutex
	lastProbe time.Time
}

type HTTPOption func(*HTTPOracle)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(o *HTTPOracle) { o.client = c }
}

func WithBreaker(b *circuit.Breaker, probeInterval time.Duration) HTTPOption {
	return func(o *HTTPOracle) {
		o.breaker = b
		if probeInterval > 0 {
			o.probeInterval = probeInterval
		}
	}
}

func WithLogger(logger *slog.Logger) HTTPOption {
	return func(o *HTTPOracle) { o.logger = logger }
}

func NewHTTPOracle(baseURL string, timeout time.Duration, opts ...HTTPOption) *HTTPOracle {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	o := &HTTPOracle{
		baseURL:       strings.TrimRight(baseURL, "/"),
		client:        &http.Client{Timeout: timeout},
		breaker:       circuit.New("verification-oracle"),
		logger:        slog.Default(),
		probeInterval: defaultProbeInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *HTTPOracle) VerifyDocumentOwnership(ctx context.Context, document, claimedOwner string) (OwnershipResult, error) {
	var res OwnershipResult
	err := o.call(ctx, "/v1/ownership", map[string]string{
		"document":      stripDataURL(document),
		"claimed_owner": claimedOwner,
	}, &res)
	return res, err
}

func (o *HTTPOracle) VerifyIdentityIntegrity(ctx context.Context, idImage, registeredName string) (IdentityResult, error) {
	var res IdentityResult
	err := o.call(ctx, "/v1/identity", map[string]string{
		"id_image":        stripDataURL(idImage),
		"registered_name": registeredName,
	}, &res)
	return res, err
}

func (o *HTTPOracle) CompareFace(ctx context.Context, idImage, faceImage string) (FaceResult, error) {
	var res FaceResult
	err := o.call(ctx, "/v1/face", map[string]string{
		"id_image":   stripDataURL(idImage),
		"face_image": stripDataURL(faceImage),
	}, &res)
	return res, err
}

func (o *HTTPOracle) call(ctx context.Context, path string, body any, out any) error {
	ctx, span := tracer.Start(ctx, "verification.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("oracle.path", path)),
	)
	defer span.End()

	if o.breaker.IsOpen() && !o.probeDue() {
		span.SetStatus(codes.Error, "circuit open")
		return ErrUnavailable
	}
	if err := o.do(ctx, path, body, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle call failed")
		if _, change := o.breaker.RecordFailure(); change.Opened {
			o.markProbe()
			o.logger.WarnContext(ctx, "verification oracle circuit opened", "path", path)
		}
		o.logger.WarnContext(ctx, "verification oracle call failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, change := o.breaker.RecordSuccess(); change.Closed {
		o.logger.InfoContext(ctx, "verification oracle circuit closed")
	}
	return nil
}

func (o *HTTPOracle) do(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (o *HTTPOracle) probeDue() bool {
	o.probeMu.Lock()
	defer o.probeMu.Unlock()
	now := time.Now()
	if now.Sub(o.lastProbe) < o.probeInterval {
		return false
	}
	o.lastProbe = now
	return true
}

func (o *HTTPOracle) markProbe() {
	o.probeMu.Lock()
	o.lastProbe = time.Now()
	o.probeMu.Unlock()
}

// stripDataURL drops a "data:image/jpeg;base64," prefix when present.
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if _, payload, ok := strings.Cut(s, ","); ok {
			return payload
		}
	}
	return s
}
