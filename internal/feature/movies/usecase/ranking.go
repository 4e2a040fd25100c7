package usecase

import "movie_ranking/internal/feature/movies/domain/entity"

// ComputeRankings assigns a dense 1..N ranking to movies sorted ascending by rating,
// so the lowest rating ranks 1 and the highest ranks N.
// Movies without a rating are expected first in the input and therefore receive the lowest ranks.
// Equal ratings keep whatever order the store returned them in.
//
// The input slice is not modified.
func ComputeRankings(movies []entity.Movie) []entity.Movie {
	out := make([]entity.Movie, len(movies))
	copy(out, movies)
	for i := range out {
		rank := i + 1
		out[i].Ranking = &rank
	}
	return out
}
