package constants

import "time"

// Slot holds the shared key-value field names consumed by the widget
// process. These names are contract, not style: both processes read them.
var Slot = struct {
	HashKey          string
	Title            string
	Year             string
	OriginalDirector string
	Recommender      string
	LetterboxdURL    string
}{
	HashKey:          "reeldaily:recommendation",
	Title:            "recTitle",
	Year:             "recYear",
	OriginalDirector: "recOriginalDirector",
	Recommender:      "recRecommender",
	LetterboxdURL:    "recLetterboxdURL",
}

var Fallback = struct {
	Title         string
	Year          int
	LetterboxdURL string
}{
	Title:         "No Movie",
	Year:          0,
	LetterboxdURL: "https://letterboxd.com",
}

var Channels = struct {
	WidgetReload  string
	Notifications string
}{
	WidgetReload:  "reeldaily:widget:reload",
	Notifications: "reeldaily:notifications",
}

var Selection = struct {
	RequiredDirectors int
}{
	RequiredDirectors: 5,
}

var CacheTTL = struct {
	DayPick time.Duration
}{
	DayPick: 48 * time.Hour,
}

var CatalogConfig = struct {
	FetchTimeout     time.Duration
	WriteTimeout     time.Duration
	FetchConcurrency int
}{
	FetchTimeout:     10 * time.Second,
	WriteTimeout:     10 * time.Second,
	FetchConcurrency: 8,
}

var Notification = struct {
	Identifier string
}{
	Identifier: "daily-recommendation",
}

var DeepLink = struct {
	Scheme string
	Host   string
	Param  string
}{
	Scheme: "reeldaily",
	Host:   "recommendation",
	Param:  "movieURL",
}

var StringLimits = struct {
	CardTitle         int
	NotificationTitle int
}{
	CardTitle:         60,
	NotificationTitle: 80,
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}{
	ReadHeaderTimeout: 5 * time.Second,
	ShutdownTimeout:   10 * time.Second,
}
