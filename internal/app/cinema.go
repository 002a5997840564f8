package app

const (
	entityCinema     = "cinema"
	entityCinemaRoom = "cinema_room"
)

func cinemaRoutes() []Route {
	return []Route{
		list("/cinema/tags", entityCinema, listCinemaTagsSQL),
		list("/cinemas", entityCinema, listCinemasSQL),
		add("/cinema/add", entityCinema, Schema{
			Str("cinema_name"),
			Str("address"),
			Str("province"),
			Str("city"),
			Str("district"),
			Num("longitude"),
			Num("latitude"),
			Str("tags"),
		}, insertCinemaSQL),
	}
}

func cinemaRoomRoutes() []Route {
	return []Route{
		del("/cinema-room/del", entityCinemaRoom, deleteCinemaRoomSQL),
		listBy("/cinema-rooms/cinemaid", entityCinemaRoom, "cinema_id", listRoomsByCinemaSQL),
		list("/cinema-room/types", entityCinemaRoom, listRoomTypesSQL),
		add("/cinema-room/add", entityCinemaRoom, Schema{
			Str("movie_cinema_id"),
			Str("room_name"),
			Str("room_type"),
		}, insertCinemaRoomSQL),
	}
}
