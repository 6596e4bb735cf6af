package domain

// Order is a past purchase referenced by a complaint.
type Order struct {
	ID     string
	Items  []string
	Total  float64
	Date   string
	Status string
}
