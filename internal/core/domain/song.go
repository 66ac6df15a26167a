package domain

// Song represents one catalogued audio asset and its mood label.
type Song struct {
	ID       string
	Title    string // optional
	Artist   string // optional
	Mood     string // sole query key, matched byte-for-byte
	AudioURL string // absolute URL into blob storage, never empty once persisted
}
