package world

// Location is the mutable record of a room. Exits, prose and hooks are
// static behaviour owned by the story definition, not by the session.
type Location struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Dark    bool   `json:"dark,omitempty"`
	Visited bool   `json:"visited,omitempty"`
	Items   []ID   `json:"items,omitempty"`
}
