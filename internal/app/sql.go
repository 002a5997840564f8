package app

// -----------------------------------------------------------------------------
// CINEMA
// -----------------------------------------------------------------------------

const listCinemaTagsSQL = `select * from movie_cinema_tag`

const listCinemasSQL = `select * from movie_cinema`

const insertCinemaSQL = `
insert into movie_cinema
  (cinema_name, address, province, city, district, longitude, latitude, tags)
values
  (?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// CINEMA ROOM
// -----------------------------------------------------------------------------

const deleteCinemaRoomSQL = `delete from movie_cinema_room where id = ?`

const listRoomsByCinemaSQL = `select * from movie_cinema_room where movie_cinema_id = ?`

const listRoomTypesSQL = `select * from movie_cinema_room_type`

const insertCinemaRoomSQL = `
insert into movie_cinema_room
  (movie_cinema_id, room_name, room_type)
values
  (?, ?, ?)
`

// -----------------------------------------------------------------------------
// MOVIE INFO
// -----------------------------------------------------------------------------

const insertMovieInfoSQL = `
insert into movie_info
  (category_id, cover, title, type, star_actor, showingon, score, description, duration)
values
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const listMovieTypesSQL = `select * from movie_type`

// LIMIT offset, count: accepted by both MySQL and SQLite.
const pageMovieInfosSQL = `select * from movie_info limit ?, ?`

const countMovieInfosSQL = `select count(*) as count from movie_info`

const deleteMovieInfoSQL = `delete from movie_info where id = ?`

// -----------------------------------------------------------------------------
// MOVIE ACTOR / DIRECTOR / THUMB
// -----------------------------------------------------------------------------

const listMovieActorsSQL = `select * from movie_actor`

const insertMovieActorSQL = `insert into movie_actor (actor_name, actor_avatar) values (?, ?)`

const deleteMovieActorSQL = `delete from movie_actor where id = ?`

const listMovieDirectorsSQL = `select * from movie_director`

const insertMovieDirectorSQL = `insert into movie_director (director_name, director_avatar) values (?, ?)`

const deleteMovieDirectorSQL = `delete from movie_director where id = ?`

const listThumbsByMovieSQL = `select * from movie_thumb where movie_id = ?`

const insertMovieThumbSQL = `insert into movie_thumb (movie_id, thumb) values (?, ?)`

const deleteMovieThumbSQL = `delete from movie_thumb where id = ?`
