package request

// CreateGuestRequest is the request body for creating a guest identity
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering an identity
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionParams carries the host-editable session fields; shared between
// create and update bodies
type SessionParams struct {
	TurfName    string `json:"turf_name"`
	Location    string `json:"location,omitempty"`
	Time        string `json:"time,omitempty"`
	MapLink     string `json:"map_link,omitempty"`
	TotalPrice  int    `json:"total_price"`
	SplitMode   string `json:"split_mode"`
	ManualPrice int    `json:"manual_price,omitempty"`
	PayTarget   string `json:"pay_target,omitempty"`
	MaxSlots    int    `json:"max_slots"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	HostName string `json:"host_name"`
	SessionParams
}

// UpdateSessionRequest is the request body for a partial session edit;
// absent fields are left untouched
type UpdateSessionRequest struct {
	TurfName    *string `json:"turf_name,omitempty"`
	Location    *string `json:"location,omitempty"`
	Time        *string `json:"time,omitempty"`
	MapLink     *string `json:"map_link,omitempty"`
	TotalPrice  *int    `json:"total_price,omitempty"`
	SplitMode   *string `json:"split_mode,omitempty"`
	ManualPrice *int    `json:"manual_price,omitempty"`
	PayTarget   *string `json:"pay_target,omitempty"`
	MaxSlots    *int    `json:"max_slots,omitempty"`
}

// TransferHostRequest is the request body for transferring host authority
type TransferHostRequest struct {
	NewHostIdentity string `json:"new_host_identity"`
}

// JoinRequest is the request body for joining a session
type JoinRequest struct {
	Name string `json:"name"`
}

// AddPlayerRequest is the request body for the host adding an unowned
// entry
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// SetStatusRequest is the request body for a payment status change
type SetStatusRequest struct {
	Status string `json:"status"`
}

// ResetRosterRequest is the request body for wiping the roster
type ResetRosterRequest struct {
	Confirmed bool `json:"confirmed"`
}
