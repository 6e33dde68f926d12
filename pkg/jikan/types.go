// Package jikan provides a client for the Jikan anime search API.
package jikan

// Show is a single anime search result.
//
// Field names follow the wire format so a Show survives an encode/decode
// round trip unchanged.
type Show struct {
	ID        int     `json:"mal_id"`
	URL       string  `json:"url"`
	ImageURL  string  `json:"image_url"`
	Title     string  `json:"title"`
	Airing    bool    `json:"airing"`
	Synopsis  string  `json:"synopsis"`
	Type      string  `json:"type"`
	Episodes  int     `json:"episodes"` // 0 when unknown
	Score     float64 `json:"score"`
	StartDate string  `json:"start_date"` // free-form, not guaranteed parseable
	EndDate   string  `json:"end_date"`
	Members   int     `json:"members"`
	Rated     string  `json:"rated"`
}

// searchResponse is the Jikan search API response.
type searchResponse struct {
	Results []Show `json:"results"`
}
