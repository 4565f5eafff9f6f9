package models

// Thread represents a discussion thread shown on the home page
type Thread struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	User      string `json:"user"`
	Status    string `json:"status"`
}

// Event represents a talk or meetup entry in the events list
type Event struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	User      string `json:"user"`
	Status    string `json:"status"`
}

// Speaker represents a conference speaker with an optional portrait
type Speaker struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	Node           string  `json:"node"`
	Status         string  `json:"status"`
	Handle         string  `json:"handle"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ClearanceLevel *string `json:"clearanceLevel,omitempty"`
	Slug           string  `json:"-"`
}

// Project represents a community project in the projects archive
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Link        string   `json:"link"`
	Client      string   `json:"client"`
	Category    string   `json:"category"`
	Tech        []string `json:"tech"`
	Slug        string   `json:"-"`
}

// SiteSettings holds the header and footer configuration of the site
type SiteSettings struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

// Block is one entry of a block list, ready to be rendered
type Block struct {
	ContentType string         `json:"contentType"`
	ID          string         `json:"id"`
	Properties  map[string]any `json:"properties"`
}

// Page is a routed content page composed of blocks
type Page struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Route  string  `json:"route"`
	Blocks []Block `json:"blocks"`
}

// SiteData is everything the static build needs
type SiteData struct {
	Settings *SiteSettings `json:"settings,omitempty"`
	Homepage *Page         `json:"homepage,omitempty"`
	Speakers []Speaker     `json:"speakers"`
	Projects []Project     `json:"projects"`
	Events   []Event       `json:"events"`
	Threads  []Thread      `json:"threads"`
}
