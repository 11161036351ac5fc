// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// Status is the envelope Twelve Data attaches to every response.
// On failure Status is "error" and Code carries an HTTP-like status even when
// the transport status was 200.
type Status struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// TimeSeriesResponse represents the JSON response from the Twelve Data time_series endpoint.
type TimeSeriesResponse struct {
	Status
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// QuoteResponse represents the JSON response from the Twelve Data quote endpoint.
// Numbers arrive as strings.
type QuoteResponse struct {
	Status
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Datetime      string `json:"datetime"`
	Open          string `json:"open"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Close         string `json:"close"`
	PreviousClose string `json:"previous_close"`
	Volume        string `json:"volume"`
	AverageVolume string `json:"average_volume"`
}
