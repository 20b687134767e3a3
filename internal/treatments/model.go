// Package treatments holds the clinic's offerable treatment catalog:
// names, prices, durations, and the category grouping the menu is
// displayed in.
package treatments

// Treatment is a single catalog entry. Price and Duration are display
// strings entered by the practitioner; Duration is parsed into minutes
// by the schedule package when an appointment is booked.
type Treatment struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Duration    string   `json:"duration"`
	Details     []string `json:"details"`
}

// Category is an ordered group of treatments as shown on the menu.
type Category struct {
	Name  string      `json:"category"`
	Items []Treatment `json:"items"`
}
