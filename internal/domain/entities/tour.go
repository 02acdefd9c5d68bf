package entities

// Tour is the subset of the tour catalogue the favorites service reads.
// Tours are owned by the catalogue service.
type Tour struct {
	ID       string   `json:"id" db:"id"`
	Title    string   `json:"title" db:"title"`
	Location string   `json:"location" db:"location"`
	Price    *float64 `json:"price,omitempty" db:"price"`
	ImageURL string   `json:"image_url" db:"image_url"`
	IsActive bool     `json:"is_active" db:"is_active"`
}
