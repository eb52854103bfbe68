package model

// Page is one response of the paginated transactions endpoint.
type Page struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []Transaction `json:"results"`
}

// NextLink returns the continuation link. A null or empty next ends pagination.
func (p Page) NextLink() (string, bool) {
	if p.Next == nil || *p.Next == "" {
		return "", false
	}
	return *p.Next, true
}
