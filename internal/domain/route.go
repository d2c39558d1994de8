package domain

type Stop struct {
	Name      string `json:"name"`
	Scheduled string `json:"scheduled"`
}

// Route is immutable reference data: a named shuttle line with a fixed
// capacity and an ordered stop sequence.
type Route struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Stops    []Stop `json:"stops"`
}

type Availability struct {
	Route     string   `json:"route"`
	Capacity  int      `json:"capacity"`
	Occupied  []string `json:"occupied"`
	Available int      `json:"available"`
}
