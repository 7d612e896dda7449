package model

// Fan represents a purchasable income-generating unit. An unowned fan
// (OwnerID == nil) sits in the shared acquisition pool.
type Fan struct {
	ID       int64  `json:"id"`
	OwnerID  *int64 `json:"owner_id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Price    int64  `json:"price"`
	Income   int64  `json:"income"`
}

// IsOwned reports whether the fan has already been acquired by some player.
func (f *Fan) IsOwned() bool {
	return f.OwnerID != nil
}

// Summary returns the public view of the fan without ownership details.
func (f *Fan) Summary() FanSummary {
	return FanSummary{
		ID:       f.ID,
		Name:     f.Name,
		PhotoURL: f.PhotoURL,
		Price:    f.Price,
		Income:   f.Income,
	}
}

// FanSummary is the fan view exposed on rosters and player snapshots.
type FanSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Price    int64  `json:"price"`
	Income   int64  `json:"income"`
}

// AcquiredFan describes the fan's state right after a successful
// acquisition: its already-escalated price for the next buyer.
type AcquiredFan struct {
	ID     int64 `json:"id"`
	Price  int64 `json:"price"`
	Income int64 `json:"income"`
}
