// Package security derives the registry's anti-fraud facts: document hashes,
// property codes and enrollment risk signals.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"trustestate/internal/registry/models"
)

const (
	upcPrefixLength = 4
	upcSuffixLength = 4
	base36          = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// IPWindow bounds how far back a previous IP counts as recent.
	IPWindow = 24 * time.Hour
)

// vpnPrefixes are address ranges commonly served by commercial VPN and proxy
// providers.
var vpnPrefixes = []string{"185.", "45.", "193.", "103."}

// DocumentHash returns the hex SHA-256 of the document exactly as submitted.
func DocumentHash(document string) string {
	sum := sha256.Sum256([]byte(document))
	return hex.EncodeToString(sum[:])
}

// GenerateUPC builds UPC-<first four address alphanumerics>-<four base36>.
func GenerateUPC(address string) (string, error) {
	var prefix strings.Builder
	for _, r := range address {
		if prefix.Len() == upcPrefixLength {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			prefix.WriteRune(unicode.ToUpper(r))
		}
	}

	suffix := make([]byte, upcSuffixLength)
	limit := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate upc: %w", err)
		}
		suffix[i] = base36[n.Int64()]
	}
	return "UPC-" + prefix.String() + "-" + string(suffix), nil
}

// IsVPN reports whether ip falls in a known VPN or proxy range.
func IsVPN(ip string) bool {
	for _, p := range vpnPrefixes {
		if strings.HasPrefix(ip, p) {
			return true
		}
	}
	return false
}

// PriorAccess is what the access log knew about a user before the current
// request.
type PriorAccess struct {
	LastIP          string
	LastIPAt        time.Time
	LastFingerprint string
}

// Observation is the current request's network identity.
type Observation struct {
	IP          string
	Fingerprint string
	At          time.Time
}

// Analyze compares the current observation with the user's prior access and
// returns the risk signals it raises.
func Analyze(prior PriorAccess, obs Observation) []models.Signal {
	var signals []models.Signal
	at := obs.At.UTC()

	if obs.IP != "" && prior.LastIP != "" && prior.LastIP != obs.IP && obs.At.Sub(prior.LastIPAt) < IPWindow {
		signals = append(signals, newSignal(models.SignalIP, models.SeverityMedium,
			fmt.Sprintf("New IP %s within 24h of activity from %s", obs.IP, prior.LastIP), at))
	}
	if IsVPN(obs.IP) {
		signals = append(signals, newSignal(models.SignalIP, models.SeverityHigh,
			fmt.Sprintf("IP %s matches a known VPN or proxy range", obs.IP), at))
	}
	if obs.Fingerprint != "" && prior.LastFingerprint != "" && prior.LastFingerprint != obs.Fingerprint {
		signals = append(signals, newSignal(models.SignalDevice, models.SeverityMedium,
			"Device fingerprint changed since the last session", at))
	}
	return signals
}

func newSignal(typ models.SignalType, sev models.SignalSeverity, desc string, at time.Time) models.Signal {
	return models.Signal{
		ID:          uuid.NewString(),
		Type:        typ,
		Severity:    sev,
		Description: desc,
		Timestamp:   at,
	}
}
