// Package dto defines data transfer objects for the TMDB API responses.
package dto

// SearchResponse represents the JSON response from the /search/movie endpoint.
type SearchResponse struct {
	Page         int           `json:"page"`
	TotalResults int           `json:"total_results"`
	Results      []MovieResult `json:"results"`
}

// MovieResult is one entry of a search response.
type MovieResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

// MovieDetailsResponse represents the JSON response from the /movie/{id} endpoint.
// poster_path may be null, which decodes to an empty string.
type MovieDetailsResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Overview    string `json:"overview"`
}

// ErrorResponse is the body TMDB returns with a non-2xx status.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
