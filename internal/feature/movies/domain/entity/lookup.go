package entity

// Candidate は外部映画データベースの検索結果1件を表します。
// ユーザーが追加する作品を選択するためだけに使われ、永続化はされません。
type Candidate struct {
	ExternalID  int64  `json:"external_id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	// Year はReleaseDateから取得できた場合のみ設定されます（不明な場合は0）。
	Year       int    `json:"year"`
	Overview   string `json:"overview"`
	PosterPath string `json:"poster_path"`
}

// MovieDetails は外部映画データベースから取得した、レコード作成に必要な作品情報です。
type MovieDetails struct {
	ExternalID  int64  `json:"external_id"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	PosterPath  string `json:"poster_path"`
	Overview    string `json:"overview"`
}
