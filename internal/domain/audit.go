package domain

import (
	"encoding/json"
	"time"
)

const (
	AuditActionCreated      = "created"
	AuditActionUpdated      = "updated"
	AuditActionDeleted      = "deleted"
	AuditActionScan         = "scan"
	AuditActionDraw         = "draw"
	AuditActionCancelDraw   = "cancel_draw"
	AuditActionSelectWinner = "select_winner"
	AuditActionDeliver      = "deliver"
	AuditActionResetRaffle  = "reset_raffle"
)

const (
	EntityEvent       = "Event"
	EntityGuest       = "Guest"
	EntityPrize       = "Prize"
	EntityAttendance  = "Attendance"
	EntityRaffleEntry = "RaffleEntry"
	EntityUser        = "User"
)

// Actor identifies who triggered a mutation.
type Actor struct {
	UserID    *uint  `json:"user_id,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ChangeRecord is emitted after every entity mutation.
type ChangeRecord struct {
	Action      string                 `json:"action"`
	EntityType  string                 `json:"entity_type"`
	EntityID    uint                   `json:"entity_id"`
	EventID     uint                   `json:"event_id"`
	Description string                 `json:"description,omitempty"`
	OldValues   map[string]interface{} `json:"old_values,omitempty"`
	NewValues   map[string]interface{} `json:"new_values,omitempty"`
	Actor       Actor                  `json:"actor"`
	Timestamp   time.Time              `json:"timestamp"`
}

type AuditLog struct {
	ID          uint                   `json:"id"`
	UserID      *uint                  `json:"user_id"`
	EventID     uint                   `json:"event_id"`
	Action      string                 `json:"action"`
	Model       string                 `json:"model"`
	ModelID     uint                   `json:"model_id"`
	Description string                 `json:"description"`
	OldValues   map[string]interface{} `json:"old_values,omitempty"`
	NewValues   map[string]interface{} `json:"new_values,omitempty"`
	IPAddress   string                 `json:"ip_address"`
	UserAgent   string                 `json:"user_agent"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AuditFilter struct {
	EventID *uint
	Model   string
	Action  string
	UserID  *uint
	Limit   int
	Offset  int
}

// FieldPolicy selects which attributes of an entity reach the audit trail.
// An empty Allow list admits every field not denied.
type FieldPolicy struct {
	Allow []string
	Deny  []string
}

var alwaysDenied = []string{"created_at", "updated_at", "password", "remember_token"}

var AuditPolicies = map[string]FieldPolicy{
	EntityEvent: {Deny: []string{"public_token"}},
	EntityGuest: {Deny: []string{"qr_code"}},
	EntityPrize: {},
	EntityAttendance: {
		Allow: []string{"id", "event_id", "guest_id", "scanned_at", "scanned_by", "scan_count"},
	},
	EntityRaffleEntry: {
		Allow: []string{"id", "event_id", "guest_id", "prize_id", "status", "drawn_at", "prize_delivered", "delivered_at", "delivered_by"},
	},
	EntityUser: {Allow: []string{"id", "email", "name", "role"}},
}

func PolicyFor(entityType string) FieldPolicy {
	return AuditPolicies[entityType]
}

func (p FieldPolicy) Filter(values map[string]interface{}) map[string]interface{} {
	if values == nil {
		return nil
	}

	denied := make(map[string]struct{}, len(alwaysDenied)+len(p.Deny))
	for _, f := range alwaysDenied {
		denied[f] = struct{}{}
	}
	for _, f := range p.Deny {
		denied[f] = struct{}{}
	}

	var allowed map[string]struct{}
	if len(p.Allow) > 0 {
		allowed = make(map[string]struct{}, len(p.Allow))
		for _, f := range p.Allow {
			allowed[f] = struct{}{}
		}
	}

	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		if _, ok := denied[k]; ok {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[k]; !ok {
				continue
			}
		}
		out[k] = v
	}

	return out
}

// AuditValues flattens an entity into its JSON attribute map.
func AuditValues(v interface{}) map[string]interface{} {
	if v == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}

	return m
}
