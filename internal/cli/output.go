package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case AuthResult:
		o.printAuthResult(v)
	case Session:
		o.printSession(v)
	case Entry:
		o.printEntry(v)
	case Summary:
		o.printSummary(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches API)
type Identity struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines identity and token
type AuthResult struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"token"`
}

// Session response type
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

// Entry response type
type Entry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OwnerIdentity string `json:"owner_identity,omitempty"`
	PaymentStatus string `json:"payment_status"`
}

// Summary response type
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

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(id Identity) {
	guestStr := "no"
	if id.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Identity: %s (%s)\n", id.DisplayName, id.Identity)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printIdentity(a.Identity)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.Code)
	fmt.Printf("Turf: %s\n", s.TurfName)
	if s.Location != "" {
		fmt.Printf("Location: %s\n", s.Location)
	}
	if s.Time != "" {
		fmt.Printf("Time: %s\n", s.Time)
	}
	fmt.Printf("Total Price: %d\n", s.TotalPrice)
	fmt.Printf("Split Mode: %s\n", s.SplitMode)
	if s.SplitMode == "manual" {
		fmt.Printf("Manual Price: %d\n", s.ManualPrice)
	}
	if s.PayTarget != "" {
		fmt.Printf("Pay To: %s\n", s.PayTarget)
	}
	fmt.Printf("Slots: %d\n", s.MaxSlots)
}

func (o *Output) printEntry(e Entry) {
	owned := "unclaimed"
	if e.OwnerIdentity != "" {
		owned = e.OwnerIdentity
	}
	fmt.Printf("Entry: %s (%s)\n", e.Name, e.ID)
	fmt.Printf("Owner: %s\n", owned)
	fmt.Printf("Payment: %s\n", e.PaymentStatus)
}

func (o *Output) printSummary(s Summary) {
	o.printSession(s.Session)
	fmt.Printf("Occupancy: %d/%d\n", s.Occupancy, s.Session.MaxSlots)
	fmt.Printf("Cost Per Head: %d\n", s.CostPerHead)
	fmt.Printf("Collected: %d of %d\n", s.Collected, s.TargetTotal)
	if s.IsHost {
		fmt.Println("You are the host")
	}

	fmt.Printf("Roster (%d):\n", len(s.Players))
	for _, p := range s.Players {
		marks := ""
		if p.OwnerIdentity == s.Session.HostIdentity && p.OwnerIdentity != "" {
			marks += " [host]"
		}
		if p.OwnerIdentity == "" {
			marks += " [unclaimed]"
		}
		if s.MyEntry != nil && p.ID == s.MyEntry.ID {
			marks += " [you]"
		}
		fmt.Printf("  - %s (%s) - %s%s\n", p.Name, p.ID, p.PaymentStatus, marks)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
