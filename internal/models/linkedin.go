package models

// PeopleSearchRequest is the body of POST /api/linkedin/people-search. Filter values
// are human readable, comma separated strings; the backend resolves them to LinkedIn ids.
type PeopleSearchRequest struct {
	Filters        map[string]string `json:"filters"`
	MaxResults     int               `json:"max_results"`
	Count          int               `json:"count"`
	IncludeDetails bool              `json:"include_details"`
}

type Position struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Location string   `json:"location,omitempty"`
	Industry []string `json:"industry,omitempty"`
}

type Education struct {
	School       string `json:"school"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}

type Locale struct {
	Country  string `json:"country"`
	Language string `json:"language"`
}

type SearchResult struct {
	Type                   string      `json:"type"`
	Industry               *string     `json:"industry"`
	ID                     string      `json:"id"`
	Name                   string      `json:"name"`
	FirstName              string      `json:"first_name,omitempty"`
	LastName               string      `json:"last_name,omitempty"`
	MemberURN              string      `json:"member_urn"`
	PublicIdentifier       string      `json:"public_identifier"`
	ProfileURL             string      `json:"profile_url"`
	PublicProfileURL       string      `json:"public_profile_url"`
	ProfilePictureURL      *string     `json:"profile_picture_url"`
	ProfilePictureURLLarge *string     `json:"profile_picture_url_large"`
	NetworkDistance        string      `json:"network_distance"`
	Location               string      `json:"location"`
	Headline               string      `json:"headline"`
	KeywordsMatch          string      `json:"keywords_match,omitempty"`
	Verified               bool        `json:"verified,omitempty"`
	SharedConnectionsCount int         `json:"shared_connections_count,omitempty"`
	FollowersCount         int         `json:"followers_count,omitempty"`
	ConnectionsCount       int         `json:"connections_count,omitempty"`
	PrimaryLocale          *Locale     `json:"primary_locale,omitempty"`
	IsOpenProfile          bool        `json:"is_open_profile,omitempty"`
	IsPremium              bool        `json:"is_premium,omitempty"`
	IsInfluencer           bool        `json:"is_influencer,omitempty"`
	IsCreator              bool        `json:"is_creator,omitempty"`
	CurrentPositions       []Position  `json:"current_positions,omitempty"`
	Education              []Education `json:"education,omitempty"`
}

// CurrentPosition returns the first listed position, if any.
func (r SearchResult) CurrentPosition() *Position {
	if len(r.CurrentPositions) == 0 {
		return nil
	}
	return &r.CurrentPositions[0]
}

// LatestEducation returns the first listed school, if any.
func (r SearchResult) LatestEducation() *Education {
	if len(r.Education) == 0 {
		return nil
	}
	return &r.Education[0]
}

type PeopleSearchResponse struct {
	Results []SearchResult `json:"results"`
}
