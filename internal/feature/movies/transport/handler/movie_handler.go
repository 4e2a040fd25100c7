// Package handler はmoviesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"movie_ranking/internal/feature/movies/domain/entity"
	"movie_ranking/internal/feature/movies/transport/http/dto"
	"movie_ranking/internal/feature/movies/usecase"
)

const (
	// FormAdd と FormEdit はフォームトークンの発行・検証に使うフォーム名です（ルートパスと一致させます）。
	FormAdd  = "/add"
	FormEdit = "/edit"
)

// MovieUsecase はコレクション操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type MovieUsecase interface {
	List(ctx context.Context) ([]entity.Movie, error)
	Search(ctx context.Context, title string) ([]entity.Candidate, error)
	AddFromLookup(ctx context.Context, externalID string) (*entity.Movie, error)
	Get(ctx context.Context, id uint) (*entity.Movie, error)
	Edit(ctx context.Context, id uint, rating, review string) (*entity.Movie, error)
	Delete(ctx context.Context, id uint) error
}

// FormTokenIssuer はフォーム送信時に検証されるトークンを発行します。
type FormTokenIssuer interface {
	Issue(form string) (string, error)
}

// MovieHandler はコレクション操作のHTTPリクエストを処理します。
type MovieHandler struct {
	uc     MovieUsecase
	tokens FormTokenIssuer
}

// NewMovieHandler はMovieHandlerの新しいインスタンスを生成します。
func NewMovieHandler(uc MovieUsecase, tokens FormTokenIssuer) *MovieHandler {
	return &MovieHandler{uc: uc, tokens: tokens}
}

// List はコレクションを順位付きで返します。
// GET /
func (h *MovieHandler) List(c *gin.Context) {
	movies, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	out := make([]dto.MovieItem, 0, len(movies))
	for _, m := range movies {
		out = append(out, dto.NewMovieItem(m))
	}
	c.JSON(http.StatusOK, out)
}

// AddForm は検索フォームを返します。
// GET /add
func (h *MovieHandler) AddForm(c *gin.Context) {
	token, err := h.tokens.Issue(FormAdd)
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, dto.FormResponse{Form: FormAdd, CSRFToken: token})
}

// Search はタイトルで外部データベースを検索し、追加候補を返します。
// POST /add
func (h *MovieHandler) Search(c *gin.Context) {
	var req dto.AddReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("add form binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	candidates, err := h.uc.Search(c.Request.Context(), req.Title)
	if err != nil {
		h.writeError(c, err, FormAdd)
		return
	}

	out := dto.SearchResponse{Results: make([]dto.CandidateItem, 0, len(candidates))}
	for _, cand := range candidates {
		out.Results = append(out.Results, dto.NewCandidateItem(cand))
	}
	c.JSON(http.StatusOK, out)
}

// Find は外部IDから作品を取得してコレクションに追加し、編集画面へリダイレクトします。
// GET /find?id=<external id>
func (h *MovieHandler) Find(c *gin.Context) {
	movie, err := h.uc.AddFromLookup(c.Request.Context(), c.Query("id"))
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s?id=%d", FormEdit, movie.ID))
}

// EditForm は現在の評価とレビューを含む編集フォームを返します。
// GET /edit?id=<record id>
func (h *MovieHandler) EditForm(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	movie, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	token, err := h.tokens.Issue(FormEdit)
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	item := dto.NewMovieItem(*movie)
	c.JSON(http.StatusOK, dto.FormResponse{Form: FormEdit, CSRFToken: token, Movie: &item})
}

// Edit は評価とレビューを更新し、一覧へリダイレクトします。
// POST /edit?id=<record id>
func (h *MovieHandler) Edit(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	var req dto.EditReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("edit form binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	if _, err := h.uc.Edit(c.Request.Context(), id, req.Rating, req.Review); err != nil {
		h.writeError(c, err, FormEdit)
		return
	}
	slog.Info("movie edited", "id", id, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete はレコードを削除し、一覧へリダイレクトします。
// GET /delete?id=<record id>
func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "")
		return
	}
	slog.Info("movie deleted", "id", id, "remote_addr", c.ClientIP())
	c.Redirect(http.StatusFound, "/")
}

// recordID はクエリ（またはフォーム）の id を解釈します。不正な場合は400を書き込みます。
func (h *MovieHandler) recordID(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		raw = c.PostForm("id")
	}
	id, err := usecase.ParseID("id", raw)
	if err != nil {
		h.writeError(c, err, "")
		return 0, false
	}
	return uint(id), true
}

// writeError はusecaseのエラーをHTTPステータスに変換します。
// form が指定されている場合、検証エラーには同じフォームを再表示するための新しいトークンを付けます。
func (h *MovieHandler) writeError(c *gin.Context, err error, form string) {
	var vErr *usecase.ValidationError
	switch {
	case errors.As(err, &vErr):
		slog.Warn("validation failed", "field", vErr.Field, "error", vErr.Message, "remote_addr", c.ClientIP())
		res := dto.FormErrorResponse{Error: vErr.Message, Field: vErr.Field}
		if form != "" {
			if token, tErr := h.tokens.Issue(form); tErr == nil {
				res.CSRFToken = token
			}
		}
		c.JSON(http.StatusBadRequest, res)
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrConstraintViolation):
		slog.Warn("duplicate movie rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrLookupFailed):
		// 外部APIの詳細（APIキーを含むURLなど）はログにのみ残す
		slog.Error("movie lookup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: usecase.ErrLookupFailed.Error()})
	default:
		slog.Error("request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
