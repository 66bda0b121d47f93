package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	id "trustestate/pkg/domain"
)

// DocumentVersion is the current schema version of the JSON columns
// (lifecycle_log, signals, interested_tenants).
//
// Version history:
//   - 0: bare JSON array, statuses stored as display names ("Locked").
//   - 1: {"v":1,"items":[...]} with canonical statuses.
const DocumentVersion = 1

type document[T any] struct {
	V     int `json:"v"`
	Items []T `json:"items"`
}

func encodeDocument[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(document[T]{V: DocumentVersion, Items: items})
}

// decodeDocument reads a versioned document. Version 0 arrays are decoded
// into L and upgraded item by item.
func decodeDocument[T, L any](raw []byte, upgrade func(L) (T, error)) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '[' {
		var legacy []L
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("decode v0 document: %w", err)
		}
		out := make([]T, 0, len(legacy))
		for _, l := range legacy {
			item, err := upgrade(l)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	var head struct {
		V int `json:"v"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode document header: %w", err)
	}
	if head.V != DocumentVersion {
		return nil, fmt.Errorf("unsupported document version %d", head.V)
	}
	var doc document[T]
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode v%d document: %w", head.V, err)
	}
	if doc.Items == nil {
		doc.Items = []T{}
	}
	return doc.Items, nil
}

func EncodeLifecycle(entries []LifecycleEntry) ([]byte, error) {
	return encodeDocument(entries)
}

type legacyLifecycleEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note"`
}

func DecodeLifecycle(raw []byte) ([]LifecycleEntry, error) {
	entries, err := decodeDocument(raw, func(l legacyLifecycleEntry) (LifecycleEntry, error) {
		st, err := StatusFromStorage(l.Status)
		if err != nil {
			return LifecycleEntry{}, err
		}
		return LifecycleEntry{Status: st, Timestamp: l.Timestamp.UTC(), Actor: l.Actor, Note: l.Note}, nil
	})
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if !e.Status.IsValid() {
			return nil, fmt.Errorf("lifecycle entry %d: unknown status %q", i, e.Status)
		}
	}
	return entries, nil
}

func EncodeSignals(signals []Signal) ([]byte, error) {
	return encodeDocument(signals)
}

func DecodeSignals(raw []byte) ([]Signal, error) {
	return decodeDocument(raw, func(s Signal) (Signal, error) { return s, nil })
}

func EncodeInterestedTenants(tenants []InterestedTenant) ([]byte, error) {
	return encodeDocument(tenants)
}

// Version 0 interest records carried the tenant id as a free-form string.
type legacyInterestedTenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func DecodeInterestedTenants(raw []byte) ([]InterestedTenant, error) {
	return decodeDocument(raw, func(l legacyInterestedTenant) (InterestedTenant, error) {
		tenantID, err := id.ParseUserID(l.ID)
		if err != nil {
			return InterestedTenant{}, fmt.Errorf("legacy interested tenant %q: %w", l.ID, err)
		}
		return InterestedTenant{ID: tenantID, Name: l.Name, Email: l.Email, Timestamp: l.Timestamp.UTC()}, nil
	})
}
