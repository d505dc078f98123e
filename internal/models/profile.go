package models

// Profile groups schedules. Exactly one profile is active at a time;
// the active id lives in the config store, not here.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// Sound is an alarm sound asset. Schedules reference sounds optionally;
// a nil sound id means the default sound.
type Sound struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FileName string `json:"file_name"`
}
