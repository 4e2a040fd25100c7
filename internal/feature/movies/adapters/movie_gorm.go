// Package adapters はmoviesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"movie_ranking/internal/feature/movies/domain/entity"
	"movie_ranking/internal/feature/movies/usecase"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// movieGorm はMovieRepositoryインターフェースのGORM実装です。
// SQLiteとPostgreSQLのどちらでも動作します。
type movieGorm struct {
	db *gorm.DB
}

// movieGormがMovieRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MovieRepository = (*movieGorm)(nil)

// NewMovieRepository は指定されたgorm.DB接続でmovieGormの新しいインスタンスを生成します。
func NewMovieRepository(db *gorm.DB) *movieGorm {
	return &movieGorm{db: db}
}

// ListAll は評価の昇順で全レコードを返します。
// 未評価（NULL）のレコードはダイアレクトに関係なく先頭（最低評価）に並びます。
// 同じ評価のレコードの順序は規定しません。
func (r *movieGorm) ListAll(ctx context.Context) ([]entity.Movie, error) {
	var movies []entity.Movie
	if err := r.db.WithContext(ctx).
		Order("CASE WHEN rating IS NULL THEN 0 ELSE 1 END").
		Order("rating ASC").
		Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// Get はIDでレコードを取得します。
// 存在しない場合、usecase.ErrNotFoundを返します。
func (r *movieGorm) Get(ctx context.Context, id uint) (*entity.Movie, error) {
	var m entity.Movie
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create はレコードを追加します。
// ユニーク制約に違反した場合、usecase.ErrConstraintViolationを返し、何も書き込みません。
func (r *movieGorm) Create(ctx context.Context, m *entity.Movie) error {
	if m == nil {
		return errors.New("movie is nil")
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrConstraintViolation
		}
		return err
	}
	return nil
}

// UpdateReview はratingとreviewだけを1トランザクションで更新します。
// nilは列をNULLに戻します。
func (r *movieGorm) UpdateReview(ctx context.Context, id uint, rating *float64, review *string) (*entity.Movie, error) {
	var m entity.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&m).
			Select("rating", "review").
			Updates(map[string]any{"rating": rating, "review": review}).Error; err != nil {
			return err
		}
		m.Rating = rating
		m.Review = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveRankings は全レコードのrankingを1トランザクションで書き込みます。
// rankingは派生値なのでUpdatedAtは更新しません。
func (r *movieGorm) SaveRankings(ctx context.Context, movies []entity.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range movies {
			if err := tx.Model(&entity.Movie{}).
				Where("id = ?", m.ID).
				UpdateColumn("ranking", m.Ranking).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete はレコードを削除します。
// 削除対象が存在しない場合、usecase.ErrNotFoundを返します。
func (r *movieGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Movie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// isDuplicateKey はユニーク制約違反かどうかを判定します。
// TranslateErrorが有効な場合はgorm.ErrDuplicatedKeyになりますが、
// 無効な接続でも検出できるようドライバー固有のエラーも確認します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}
