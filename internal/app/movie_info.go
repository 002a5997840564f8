package app

import (
	"math"
	"net/http"
)

const entityMovieInfo = "movie_info"

// MaxPageSize caps the pagesize of paginated listings.
const MaxPageSize = 100

func movieInfoRoutes() []Route {
	return []Route{
		add("/movie-info/add", entityMovieInfo, Schema{
			Num("categoryId"),
			Str("cover"),
			Str("title"),
			Str("type"),
			Str("starActor"),
			Str("showingon"),
			Str("score"),
			Str("description"),
			Num("duration"),
		}, insertMovieInfoSQL),
		list("/movie-types", entityMovieInfo, listMovieTypesSQL),
		{
			Method: http.MethodGet,
			Path:   "/movie-infos",
			Entity: entityMovieInfo,
			Source: FromQuery,
			Schema: Schema{
				Int("page", Bound(1), nil),
				Int("pagesize", Bound(1), Bound(MaxPageSize)),
			},
			SQL:      pageMovieInfosSQL,
			CountSQL: countMovieInfosSQL,
			Shape:    Paged,
		},
		del("/movie-info/del", entityMovieInfo, deleteMovieInfoSQL),
	}
}

// startIndex converts a 1-based page into a row offset. ok is false when the
// offset does not fit in an int64.
func startIndex(page, size int64) (offset int64, ok bool) {
	if page < 1 || size < 1 || page-1 > math.MaxInt64/size {
		return 0, false
	}
	return (page - 1) * size, true
}
