package security

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustestate/internal/registry/models"
)

func TestDocumentHash(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", DocumentHash("abc"))
	assert.Len(t, DocumentHash("data:application/pdf;base64,JVBERi0x"), 64)
}

func TestGenerateUPC(t *testing.T) {
	tests := []struct {
		address string
		pattern string
	}{
		{"12 Admiralty Way, Lekki", `^UPC-12AD-[0-9A-Z]{4}$`},
		{"b-7", `^UPC-B7-[0-9A-Z]{4}$`},
		{"Ìkòyí Crescent", `^UPC-KYCR-[0-9A-Z]{4}$`},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			upc, err := GenerateUPC(tt.address)
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), upc)
		})
	}

	seen := map[string]bool{}
	for range 50 {
		upc, err := GenerateUPC("Main Street")
		require.NoError(t, err)
		seen[upc] = true
	}
	assert.Greater(t, len(seen), 40, "suffixes should be random")
}

func TestIsVPN(t *testing.T) {
	for _, ip := range []string{"185.220.101.4", "45.1.1.1", "193.0.0.9", "103.21.244.0"} {
		assert.True(t, IsVPN(ip), ip)
	}
	for _, ip := range []string{"102.89.4.1", "10.0.0.1", "", "4.5.6.7"} {
		assert.False(t, IsVPN(ip), ip)
	}
}

func TestAnalyze(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first access raises nothing", func(t *testing.T) {
		assert.Empty(t, Analyze(PriorAccess{}, Observation{IP: "102.89.4.1", Fingerprint: "fp-1", At: now}))
	})

	t.Run("new ip within the window", func(t *testing.T) {
		sigs := Analyze(
			PriorAccess{LastIP: "102.89.4.1", LastIPAt: now.Add(-2 * time.Hour), LastFingerprint: "fp-1"},
			Observation{IP: "102.89.9.9", Fingerprint: "fp-1", At: now},
		)
		require.Len(t, sigs, 1)
		assert.Equal(t, models.SignalIP, sigs[0].Type)
		assert.Equal(t, models.SeverityMedium, sigs[0].Severity)
		assert.NotEmpty(t, sigs[0].ID)
		assert.Equal(t, now, sigs[0].Timestamp)
	})

	t.Run("ip change after the window is ignored", func(t *testing.T) {
		sigs := Analyze(
			PriorAccess{LastIP: "102.89.4.1", LastIPAt: now.Add(-25 * time.Hour)},
			Observation{IP: "102.89.9.9", At: now},
		)
		assert.Empty(t, sigs)
	})

	t.Run("vpn and device change stack", func(t *testing.T) {
		sigs := Analyze(
			PriorAccess{LastIP: "185.220.101.4", LastIPAt: now.Add(-time.Hour), LastFingerprint: "fp-1"},
			Observation{IP: "185.220.101.4", Fingerprint: "fp-2", At: now},
		)
		require.Len(t, sigs, 2)
		assert.Equal(t, models.SeverityHigh, sigs[0].Severity)
		assert.Equal(t, models.SignalDevice, sigs[1].Type)
	})
}
