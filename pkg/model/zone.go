package model

// ZoneRecord is the JSON projection of one zone listing line.
type ZoneRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	State    State  `json:"state"`
	RawState string `json:"raw_state"`
	Zonepath string `json:"zonepath"`
	UUID     string `json:"uuid,omitempty"`
	Brand    string `json:"brand"`
	IPType   string `json:"ip_type"`
}
