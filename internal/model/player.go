package model

// Player represents a game account with its currency balance and owned fans.
type Player struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhotoURL    string  `json:"photo_url"`
	Balance     int64   `json:"balance"`
	OwnedFanIDs []int64 `json:"owned_fan_ids"`
}

// OwnsFan reports whether fanID is already in the player's owned list.
func (p *Player) OwnsFan(fanID int64) bool {
	for _, id := range p.OwnedFanIDs {
		if id == fanID {
			return true
		}
	}
	return false
}

// AppendFan adds fanID to the owned list unless it is already present.
// The list keeps acquisition order.
func (p *Player) AppendFan(fanID int64) {
	if p.OwnsFan(fanID) {
		return
	}
	p.OwnedFanIDs = append(p.OwnedFanIDs, fanID)
}

// PlayerPatch is a partial state overwrite submitted by a client to
// reconcile client-computed passive income. Nil fields are left untouched.
type PlayerPatch struct {
	Balance     *int64   `json:"balance,omitempty"`
	OwnedFanIDs *[]int64 `json:"owned_fan_ids,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *PlayerPatch) IsEmpty() bool {
	return p.Balance == nil && p.OwnedFanIDs == nil
}

// PlayerView is the read model returned by the query surface: player fields
// plus the materialized summaries of the fans they own.
type PlayerView struct {
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	PhotoURL  string       `json:"photo_url"`
	Balance   int64        `json:"balance"`
	Fans      []FanSummary `json:"fans"`
}

// PlayerSummary is a single leaderboard row.
type PlayerSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
	Balance   int64  `json:"balance"`
}
