package app

const (
	entityMovieActor    = "movie_actor"
	entityMovieDirector = "movie_director"
	entityMovieThumb    = "movie_thumb"
)

func movieActorRoutes() []Route {
	return []Route{
		list("/movie-actors", entityMovieActor, listMovieActorsSQL),
		add("/movie-actor/add", entityMovieActor, Schema{
			Str("actor_name"),
			Str("actor_avatar"),
		}, insertMovieActorSQL),
		del("/movie-actor/del", entityMovieActor, deleteMovieActorSQL),
	}
}

func movieDirectorRoutes() []Route {
	return []Route{
		list("/movie-directors", entityMovieDirector, listMovieDirectorsSQL),
		add("/movie-director/add", entityMovieDirector, Schema{
			Str("director_name"),
			Str("director_avatar"),
		}, insertMovieDirectorSQL),
		del("/movie-director/del", entityMovieDirector, deleteMovieDirectorSQL),
	}
}

// Thumbnails are promotional stills attached to a movie.
func movieThumbRoutes() []Route {
	return []Route{
		listBy("/movie-thumbs/movieid", entityMovieThumb, "movie_id", listThumbsByMovieSQL),
		add("/movie-thumb/add", entityMovieThumb, Schema{
			Str("movie_id"),
			Str("thumb"),
		}, insertMovieThumbSQL),
		del("/movie-thumb/del", entityMovieThumb, deleteMovieThumbSQL),
	}
}
