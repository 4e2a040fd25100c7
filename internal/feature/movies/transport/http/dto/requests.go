// Package dto はmoviesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// AddReq は POST /add のフォームを表します。
// 入力チェックはusecaseの検証関数で行うため、binding タグは付けません。
type AddReq struct {
	Title string `form:"title"`
}

// EditReq は POST /edit のフォームを表します。
type EditReq struct {
	Rating string `form:"rating"`
	Review string `form:"review"`
}
