package di

import (
	"gorm.io/gorm"

	"movie_ranking/internal/feature/movies/adapters"
	"movie_ranking/internal/feature/movies/transport/handler"
	"movie_ranking/internal/feature/movies/usecase"
)

// NewMovieHandler wires the repository, use case and handler of the movies feature.
func NewMovieHandler(db *gorm.DB, lookup usecase.MovieLookup, imageBaseURL string, tokens handler.FormTokenIssuer) *handler.MovieHandler {
	repo := adapters.NewMovieRepository(db)
	uc := usecase.NewMovieUsecase(repo, lookup, imageBaseURL)
	return handler.NewMovieHandler(uc, tokens)
}
