package handlers

import "time"

// ShortenRequest is the request body for shortening a URL.
type ShortenRequest struct {
	Body struct {
		Target string `doc:"The URL to shorten; http:// is assumed when no scheme is given" example:"http://localhost" json:"target"`
	}
}

// ShortenResponse describes the record stored for the submitted URL.
type ShortenResponse struct {
	CacheControl string `header:"Cache-Control"`
	Body         struct {
		Tiny     string    `doc:"The tiny token"                                 example:"86a9106a"                       json:"tiny"`
		Target   string    `doc:"The normalized target URL"                      example:"http://localhost"               json:"target"`
		ShortURL string    `doc:"The full short URL"                             example:"http://localhost:8888/86a9106a" json:"shortUrl"`
		Created  time.Time `doc:"When the record was created"                    json:"created"`
		Existing bool      `doc:"Whether the URL had already been shortened"     json:"existing"`
	}
}

// RedirectRequest is the request for following a tiny.
type RedirectRequest struct {
	Tiny string `doc:"The tiny token" example:"86a9106a" path:"tiny"`
}

// RedirectResponse is a temporary redirect that must not be cached.
type RedirectResponse struct {
	Status       int
	Location     string `header:"Location"`
	CacheControl string `header:"Cache-Control"`
}

// TopRequest limits the usage listing.
type TopRequest struct {
	Limit int `default:"10" doc:"Number of records to list" maximum:"100" minimum:"1" query:"limit"`
}

// TopEntry is one record of the usage listing.
type TopEntry struct {
	Tiny       string    `json:"tiny"`
	Target     string    `json:"target"`
	Created    time.Time `json:"created"`
	UsageCount int64     `json:"usageCount"`
}

// TopResponse lists records by usage, most used first.
type TopResponse struct {
	Body struct {
		URLs []TopEntry `json:"urls"`
	}
}
