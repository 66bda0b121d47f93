package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustestate/pkg/platform/circuit"
)

func TestResultThresholds(t *testing.T) {
	assert.True(t, OwnershipResult{MatchFound: true, Confidence: 90}.Verified())
	assert.False(t, OwnershipResult{MatchFound: true, Confidence: 89.9}.Verified())
	assert.False(t, OwnershipResult{MatchFound: false, Confidence: 100}.Verified())

	assert.True(t, IdentityResult{Similarity: 90}.Verified())
	assert.False(t, IdentityResult{Similarity: 95, IsTampered: true}.Verified())
	assert.False(t, IdentityResult{Similarity: 89}.Verified())

	assert.True(t, FaceResult{IsSamePerson: true, Confidence: 85}.Verified())
	assert.False(t, FaceResult{IsSamePerson: true, Confidence: 84}.Verified())
	assert.False(t, FaceResult{IsSamePerson: false, Confidence: 99}.Verified())
}

func TestStaticOracle(t *testing.T) {
	o := NewApprovingOracle()
	ctx := context.Background()

	own, err := o.VerifyDocumentOwnership(ctx, "deed", "Ada")
	require.NoError(t, err)
	assert.True(t, own.Verified())

	idRes, err := o.VerifyIdentityIntegrity(ctx, "id", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", idRes.ExtractedName)

	t.Run("latency honours cancellation", func(t *testing.T) {
		slow := &StaticOracle{Latency: time.Hour}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := slow.CompareFace(cctx, "a", "b")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHTTPOracle_DecodesResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/v1/ownership":
			assert.Equal(t, "ZGVlZA==", body["document"], "data URL prefix is stripped")
			assert.Equal(t, "Ada", body["claimed_owner"])
			_, _ = w.Write([]byte(`{"match_found":true,"confidence":93}`))
		case "/v1/face":
			_, _ = w.Write([]byte(`{"is_same_person":true,"confidence":80,"reason":"blurry"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	o := NewHTTPOracle(srv.URL+"/", time.Second)
	own, err := o.VerifyDocumentOwnership(context.Background(), "data:image/jpeg;base64,ZGVlZA==", "Ada")
	require.NoError(t, err)
	assert.True(t, own.Verified())

	face, err := o.CompareFace(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, face.Verified())
	assert.Equal(t, "blurry", face.Reason)
}

func TestHTTPOracle_CircuitOpensAndFailsFast(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	o := NewHTTPOracle(srv.URL, time.Second,
		WithBreaker(circuit.New("oracle-test", circuit.WithFailureThreshold(2)), time.Hour))
	ctx := context.Background()

	for range 2 {
		_, err := o.VerifyDocumentOwnership(ctx, "d", "n")
		require.ErrorIs(t, err, ErrUnavailable)
	}
	require.EqualValues(t, 2, hits.Load())

	_, err := o.VerifyDocumentOwnership(ctx, "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 2, hits.Load(), "open circuit must not reach the server")
}
