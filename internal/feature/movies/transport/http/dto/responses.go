package dto

import "movie_ranking/internal/feature/movies/domain/entity"

// MovieItem is the public representation of a stored movie.
type MovieItem struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Rating      *float64 `json:"rating"`
	Ranking     *int     `json:"ranking"`
	Review      *string  `json:"review"`
	ImageURL    string   `json:"img_url"`
}

// CandidateItem is one search hit offered for selection.
type CandidateItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Year        int    `json:"year,omitempty"`
	Overview    string `json:"overview"`
}

// SearchResponse is returned by POST /add.
type SearchResponse struct {
	Results []CandidateItem `json:"results"`
}

// FormResponse describes a form the client should render.
type FormResponse struct {
	Form      string     `json:"form"`
	CSRFToken string     `json:"csrf_token"`
	Movie     *MovieItem `json:"movie,omitempty"`
}

// FormErrorResponse re-prompts a form with the field that failed validation.
type FormErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewMovieItem converts an entity into its response shape.
func NewMovieItem(m entity.Movie) MovieItem {
	return MovieItem{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year,
		Description: m.Description,
		Rating:      m.Rating,
		Ranking:     m.Ranking,
		Review:      m.Review,
		ImageURL:    m.ImageURL,
	}
}

// NewCandidateItem converts a lookup candidate into its response shape.
func NewCandidateItem(c entity.Candidate) CandidateItem {
	return CandidateItem{
		ID:          c.ExternalID,
		Title:       c.Title,
		ReleaseDate: c.ReleaseDate,
		Year:        c.Year,
		Overview:    c.Overview,
	}
}
