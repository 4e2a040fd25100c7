package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"movie_ranking/internal/feature/movies/domain/entity"
)

// MovieRepository はmovieエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type MovieRepository interface {
	// ListAll は評価の昇順（未評価が最小）で全レコードを返します。
	ListAll(ctx context.Context) ([]entity.Movie, error)

	// Get はIDに一致するレコードを返します。存在しない場合はErrNotFoundを返します。
	Get(ctx context.Context, id uint) (*entity.Movie, error)

	// Create は新しいレコードを保存します。
	// タイトル・説明・画像URLのいずれかが既存レコードと重複する場合はErrConstraintViolationを返します。
	Create(ctx context.Context, movie *entity.Movie) error

	// UpdateReview はratingとreviewのみを更新し、更新後のレコードを返します。
	UpdateReview(ctx context.Context, id uint, rating *float64, review *string) (*entity.Movie, error)

	// SaveRankings は各レコードのrankingを1トランザクションで書き込みます。
	SaveRankings(ctx context.Context, movies []entity.Movie) error

	// Delete はレコードを削除します。存在しない場合はErrNotFoundを返します。
	Delete(ctx context.Context, id uint) error
}

// MovieLookup は外部映画データベースへの問い合わせを抽象化します。
// 失敗した場合、実装はErrLookupFailedをラップしたエラーを返します。
type MovieLookup interface {
	Search(ctx context.Context, title string) ([]entity.Candidate, error)
	FetchDetails(ctx context.Context, externalID int64) (*entity.MovieDetails, error)
}

// movieUsecase はコレクション操作のビジネスロジックを実装します。
type movieUsecase struct {
	movies       MovieRepository
	lookup       MovieLookup
	imageBaseURL string
}

// NewMovieUsecase はmovieUsecaseの新しいインスタンスを生成します。
// imageBaseURL は外部データベースのposter_pathの前に連結されます。
func NewMovieUsecase(movies MovieRepository, lookup MovieLookup, imageBaseURL string) *movieUsecase {
	return &movieUsecase{
		movies:       movies,
		lookup:       lookup,
		imageBaseURL: imageBaseURL,
	}
}

// List は全レコードを読み込み、順位を再計算して保存した上で返します。
// 返却順はストアの順序（評価の昇順）です。
func (u *movieUsecase) List(ctx context.Context) ([]entity.Movie, error) {
	movies, err := u.movies.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := ComputeRankings(movies)
	if err := u.movies.SaveRankings(ctx, ranked); err != nil {
		return nil, fmt.Errorf("save rankings: %w", err)
	}
	return ranked, nil
}

// Search はタイトルで外部データベースを検索し、追加候補を返します。永続化は行いません。
func (u *movieUsecase) Search(ctx context.Context, title string) ([]entity.Candidate, error) {
	t, err := ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	return u.lookup.Search(ctx, t)
}

// AddFromLookup は外部IDから作品詳細を取得し、未評価のレコードとして作成します。
// 取得に失敗した場合はレコードを作成しません。
func (u *movieUsecase) AddFromLookup(ctx context.Context, externalID string) (*entity.Movie, error) {
	id, err := ParseID("id", externalID)
	if err != nil {
		return nil, err
	}

	details, err := u.lookup.FetchDetails(ctx, int64(id))
	if err != nil {
		return nil, err
	}

	movie := &entity.Movie{
		Title:       details.Title,
		Year:        details.ReleaseYear,
		Description: details.Overview,
		ImageURL:    u.imageBaseURL + details.PosterPath,
	}
	if err := u.movies.Create(ctx, movie); err != nil {
		return nil, err
	}

	slog.Info("movie added", "id", movie.ID, "title", movie.Title, "external_id", id)
	return movie, nil
}

// Get はIDに一致するレコードを返します。
func (u *movieUsecase) Get(ctx context.Context, id uint) (*entity.Movie, error) {
	return u.movies.Get(ctx, id)
}

// Edit は評価とレビューを検証して更新します。その他のフィールドは変更されません。
func (u *movieUsecase) Edit(ctx context.Context, id uint, rating, review string) (*entity.Movie, error) {
	r, err := ParseRating(rating)
	if err != nil {
		return nil, err
	}
	return u.movies.UpdateReview(ctx, id, r, NormalizeReview(review))
}

// Delete はレコードを削除します。
func (u *movieUsecase) Delete(ctx context.Context, id uint) error {
	return u.movies.Delete(ctx, id)
}
