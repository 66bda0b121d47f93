package uniqueness

import (
	"context"
	"sync"
	"time"

	"trustestate/internal/registry/models"
	"trustestate/internal/registry/security"
	id "trustestate/pkg/domain"
)

type ipSeen struct {
	ip string
	at time.Time
}

// InMemoryIndex is the single-process uniqueness index and access log.
type InMemoryIndex struct {
	mu           sync.Mutex
	documents    map[string]id.PropertyID
	upcs         map[string]id.PropertyID
	lastIP       map[id.UserID]ipSeen
	fingerprints map[id.UserID]string
}

func New() *InMemoryIndex {
	return &InMemoryIndex{
		documents:    make(map[string]id.PropertyID),
		upcs:         make(map[string]id.PropertyID),
		lastIP:       make(map[id.UserID]ipSeen),
		fingerprints: make(map[id.UserID]string),
	}
}

func (x *InMemoryIndex) ClaimDocumentHash(_ context.Context, hash string, propertyID id.PropertyID) error {
	return x.claim(x.documents, hash, propertyID, models.ErrDuplicateDocument)
}

func (x *InMemoryIndex) ClaimUPC(_ context.Context, upc string, propertyID id.PropertyID) error {
	return x.claim(x.upcs, upc, propertyID, models.ErrDuplicateUPC)
}

func (x *InMemoryIndex) claim(m map[string]id.PropertyID, key string, propertyID id.PropertyID, dup error) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if owner, taken := m[key]; taken && owner != propertyID {
		return dup
	}
	m[key] = propertyID
	return nil
}

// Release drops claims held by propertyID.
func (x *InMemoryIndex) Release(_ context.Context, propertyID id.PropertyID, upc, hash string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.upcs[upc] == propertyID {
		delete(x.upcs, upc)
	}
	if x.documents[hash] == propertyID {
		delete(x.documents, hash)
	}
	return nil
}

func (x *InMemoryIndex) RecordAccess(_ context.Context, userID id.UserID, obs security.Observation) (security.PriorAccess, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	prior := security.PriorAccess{LastFingerprint: x.fingerprints[userID]}
	if seen, ok := x.lastIP[userID]; ok && obs.At.Sub(seen.at) < security.IPWindow {
		prior.LastIP = seen.ip
		prior.LastIPAt = seen.at
	}
	if obs.IP != "" {
		x.lastIP[userID] = ipSeen{ip: obs.IP, at: obs.At}
	}
	if obs.Fingerprint != "" {
		x.fingerprints[userID] = obs.Fingerprint
	}
	return prior, nil
}
