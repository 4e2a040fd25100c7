package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	moviehandler "movie_ranking/internal/feature/movies/transport/handler"
	"movie_ranking/internal/platform/formtoken"
)

// NewRouter はmoviesフィーチャーとヘルスチェックのルートを登録したEngineを返します。
// corsOriginsが空の場合、CORSミドルウェアは適用しません。
func NewRouter(movies *moviehandler.MovieHandler, health gin.HandlerFunc,
	tokens *formtoken.Manager, corsOrigins []string) *gin.Engine {
	r := gin.Default()

	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  corsOrigins,
			AllowMethods:  []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", formtoken.HeaderName},
			ExposeHeaders: []string{"Location"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// 一覧（表示のたびに順位を再計算）
	r.GET("/", movies.List)

	// 検索フォームと検索実行
	r.GET(moviehandler.FormAdd, movies.AddForm)
	r.POST(moviehandler.FormAdd, formtoken.Required(tokens), movies.Search)

	// 検索結果から選択した作品の登録
	r.GET("/find", movies.Find)

	// 評価・レビューの編集
	r.GET(moviehandler.FormEdit, movies.EditForm)
	r.POST(moviehandler.FormEdit, formtoken.Required(tokens), movies.Edit)

	r.GET("/delete", movies.Delete)

	return r
}
