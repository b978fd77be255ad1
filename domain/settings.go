package domain

// Settings are process-wide flags, always replaced as a whole.
type Settings struct {
	AutoDetectDriving bool `json:"autoDetectDriving"`
	BlockGroup        bool `json:"blockGroup"`
	SpeakEmojis       bool `json:"speakEmojis"`
	AutoRead          bool `json:"autoRead"`
}

// DefaultSettings keeps a fresh install usable: everything is read aloud.
func DefaultSettings() Settings {
	return Settings{AutoRead: true, SpeakEmojis: true}
}
