package models

// DefaultSoundName is displayed when an occurrence has no sound attached.
const DefaultSoundName = "Default"

// Occurrence is one calendar-date instance of a schedule firing, after
// override resolution. Time, name and sound are the effective values.
type Occurrence struct {
	ScheduleID int64   `json:"schedule_id"`
	Name       string  `json:"name"`
	Time       int     `json:"time"` // minutes since midnight
	SoundID    *int64  `json:"sound_id,omitempty"`
	SoundName  string  `json:"sound_name"`
	SoundFile  *string `json:"sound_file,omitempty"`
	Repeat     Repeat  `json:"repeat"`
	Date       string  `json:"date"` // YYYY-MM-DD, post-override display date
}
