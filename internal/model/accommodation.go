package model

// TargetAccommodations is the number of accommodations requested from the model.
// Replies with a different count are accepted but flagged as degraded.
const TargetAccommodations = 10

// AccommodationRequest is the inbound payload for a letter request.
// It lives only for the duration of one request and is never stored.
type AccommodationRequest struct {
	Name       string `json:"name"`
	Disability string `json:"disability"`
	Context    string `json:"context"`
}

// LetterResponse is the successful response body of the letter endpoint.
type LetterResponse struct {
	Letter         string   `json:"letter"`
	Accommodations []string `json:"accommodations"`
	Diagnostics    any      `json:"diagnostics,omitempty"`
}
