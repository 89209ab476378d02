package dto

// EnrichmentRequest lists the ids a feed page wants display names for. Empty
// lists are allowed; the corresponding registry is simply not queried.
type EnrichmentRequest struct {
	UserIDs    []string `json:"userIds"`
	CharityIDs []string `json:"charityIds"`
	DonorIDs   []string `json:"donorIds"`
	StoryIDs   []string `json:"storyIds"`
}

// NamedRef pairs an id with the registry's display name for it.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TitledRef pairs a story id with its title.
type TitledRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// EnrichmentResponse returns only the ids each registry could resolve.
type EnrichmentResponse struct {
	Users     []NamedRef  `json:"users"`
	Charities []NamedRef  `json:"charities"`
	Donors    []NamedRef  `json:"donors"`
	Stories   []TitledRef `json:"stories"`
}
