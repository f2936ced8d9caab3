package response

import (
	"time"

	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/services/identity"
	"github.com/jswain/turfsplit/internal/services/roster"
)

// Identity represents an identity in API responses
type Identity struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// IdentityFromToken converts a token to a response Identity
func IdentityFromToken(t *identity.Token) Identity {
	return Identity{
		Identity:    string(t.Identity),
		DisplayName: t.DisplayName,
		IsGuest:     t.Guest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"token"`
}

// AuthResponseFromToken creates an AuthResponse from an issued token
func AuthResponseFromToken(t *identity.Token) AuthResponse {
	return AuthResponse{
		Identity: IdentityFromToken(t),
		Token:    t.Value,
	}
}

// Session represents a session in API responses
type Session struct {
	Code         string    `json:"code"`
	TurfName     string    `json:"turf_name"`
	Location     string    `json:"location,omitempty"`
	Time         string    `json:"time,omitempty"`
	MapLink      string    `json:"map_link,omitempty"`
	TotalPrice   int       `json:"total_price"`
	SplitMode    string    `json:"split_mode"`
	ManualPrice  int       `json:"manual_price,omitempty"`
	PayTarget    string    `json:"pay_target,omitempty"`
	MaxSlots     int       `json:"max_slots"`
	HostIdentity string    `json:"host_identity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionFromModel converts a model.Session to a response Session
func SessionFromModel(s *model.Session) Session {
	return Session{
		Code:         string(s.Code),
		TurfName:     s.TurfName,
		Location:     s.Location,
		Time:         s.Time,
		MapLink:      s.MapLink,
		TotalPrice:   s.TotalPrice,
		SplitMode:    string(s.SplitMode),
		ManualPrice:  s.ManualPrice,
		PayTarget:    s.PayTarget,
		MaxSlots:     s.MaxSlots,
		HostIdentity: string(s.HostIdentity),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Entry represents a roster entry in API responses
type Entry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerIdentity string    `json:"owner_identity,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// EntryFromModel converts a model.PlayerEntry to a response Entry
func EntryFromModel(e *model.PlayerEntry) Entry {
	return Entry{
		ID:            string(e.ID),
		Name:          e.Name,
		OwnerIdentity: string(e.OwnerIdentity),
		PaymentStatus: string(e.PaymentStatus),
		CreatedAt:     e.CreatedAt,
	}
}

// Summary is the full session view: config, ordered roster and the
// derived split numbers
type Summary struct {
	Session     Session `json:"session"`
	Players     []Entry `json:"players"`
	CostPerHead int     `json:"cost_per_head"`
	TargetTotal int     `json:"target_total"`
	Collected   int     `json:"collected"`
	Occupancy   int     `json:"occupancy"`
	IsHost      bool    `json:"is_host"`
	MyEntry     *Entry  `json:"my_entry,omitempty"`
}

// SummaryFromModel converts a roster.Summary
func SummaryFromModel(s *roster.Summary) Summary {
	players := make([]Entry, len(s.Players))
	for i, p := range s.Players {
		players[i] = EntryFromModel(p)
	}

	var myEntry *Entry
	if s.MyEntry != nil {
		e := EntryFromModel(s.MyEntry)
		myEntry = &e
	}

	return Summary{
		Session:     SessionFromModel(s.Session),
		Players:     players,
		CostPerHead: s.CostPerHead,
		TargetTotal: s.TargetTotal,
		Collected:   s.Collected,
		Occupancy:   s.Occupancy,
		IsHost:      s.IsHost,
		MyEntry:     myEntry,
	}
}
