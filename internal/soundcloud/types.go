package soundcloud

// User is a SoundCloud user profile. Only the fields the relay reads are
// declared; the API returns many more.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
}

// Track is a SoundCloud track. Duration is in milliseconds.
type Track struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Duration      int64  `json:"duration"`
	PlaybackCount int64  `json:"playback_count"`
	LikesCount    int64  `json:"likes_count"`
	Genre         string `json:"genre,omitempty"`
	PermalinkURL  string `json:"permalink_url,omitempty"`
	ArtworkURL    string `json:"artwork_url,omitempty"`
	User          User   `json:"user"`
}

// Playlist is the playlist-creation response.
type Playlist struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Sharing      string `json:"sharing,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
	TrackCount   int    `json:"track_count,omitempty"`
}

// apiErrorBody is the error envelope SoundCloud returns on non-2xx responses.
// The API is inconsistent: some endpoints use code/message, others the OAuth
// error/error_description pair.
type apiErrorBody struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
