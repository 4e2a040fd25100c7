package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"movie_ranking/internal/feature/movies/domain/entity"
	"movie_ranking/internal/feature/movies/usecase"
	"movie_ranking/internal/platform/externalapi/tmdb/dto"
)

// Client はTMDB APIから映画情報を取得するMovieLookup実装です。
// 失敗はすべてusecase.ErrLookupFailedでラップして返します。リトライは行いません。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMovieLookupを実装していることをコンパイル時に検証します。
var _ usecase.MovieLookup = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Search はタイトルで映画を検索し、候補の一覧を返します。
func (c *Client) Search(ctx context.Context, title string) ([]entity.Candidate, error) {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("query", title)

	var body dto.SearchResponse
	if err := c.get(ctx, c.cfg.SearchURL, q, &body); err != nil {
		return nil, err
	}

	out := make([]entity.Candidate, 0, len(body.Results))
	for _, r := range body.Results {
		// 公開日が未定の作品もあるため、候補の年は取得できた場合のみ設定する
		year, _ := ParseReleaseYear(r.ReleaseDate)
		out = append(out, entity.Candidate{
			ExternalID:  r.ID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			Year:        year,
			Overview:    r.Overview,
			PosterPath:  r.PosterPath,
		})
	}
	return out, nil
}

// FetchDetails は外部IDで作品詳細を取得します。
// レコード作成に必要な項目（タイトル・公開年・ポスター・概要）が欠けている場合もエラーになります。
func (c *Client) FetchDetails(ctx context.Context, externalID int64) (*entity.MovieDetails, error) {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)

	u := strings.TrimRight(c.cfg.InfoURL, "/") + "/" + strconv.FormatInt(externalID, 10)

	var body dto.MovieDetailsResponse
	if err := c.get(ctx, u, q, &body); err != nil {
		return nil, err
	}

	year, err := ParseReleaseYear(body.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: movie %d: %v", usecase.ErrLookupFailed, externalID, err)
	}
	switch {
	case strings.TrimSpace(body.Title) == "":
		return nil, fmt.Errorf("%w: movie %d has no title", usecase.ErrLookupFailed, externalID)
	case strings.TrimSpace(body.Overview) == "":
		return nil, fmt.Errorf("%w: movie %d has no overview", usecase.ErrLookupFailed, externalID)
	case body.PosterPath == "":
		return nil, fmt.Errorf("%w: movie %d has no poster", usecase.ErrLookupFailed, externalID)
	}

	return &entity.MovieDetails{
		ExternalID:  externalID,
		Title:       body.Title,
		ReleaseYear: year,
		PosterPath:  body.PosterPath,
		Overview:    body.Overview,
	}, nil
}

// ParseReleaseYear は "2010-07-16" 形式の公開日の先頭要素を年として解釈します。
func ParseReleaseYear(releaseDate string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(releaseDate), "-")
	if head == "" {
		return 0, errors.New("release_date is empty")
	}
	year, err := strconv.Atoi(head)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("parse release_date %q: invalid year", releaseDate)
	}
	return year, nil
}

// get はGETリクエストを実行し、レスポンスをoutにデコードします。
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrLookupFailed, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		// url.ErrorにはAPIキーを含むURLが入るため、元のエラーだけを残す
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %v", usecase.ErrLookupFailed, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if b, rErr := io.ReadAll(io.LimitReader(res.Body, 4096)); rErr == nil && json.Unmarshal(b, &apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("%w: tmdb http %d: %s", usecase.ErrLookupFailed, res.StatusCode, apiErr.StatusMessage)
		}
		return fmt.Errorf("%w: tmdb http %d", usecase.ErrLookupFailed, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", usecase.ErrLookupFailed, err)
	}
	return nil
}
