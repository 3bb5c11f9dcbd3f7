package models

// genreIDs maps genre names to the backend's numeric genre ids. Korean and
// English names resolve to the same id.
var genreIDs = map[string]int{
	"액션": 1, "Action": 1,
	"모험": 2, "Adventure": 2,
	"애니메이션": 3, "Animation": 3,
	"코미디": 4, "Comedy": 4,
	"범죄": 5, "Crime": 5,
	"다큐멘터리": 6, "Documentary": 6,
	"드라마": 7, "Drama": 7,
	"가족": 8, "Family": 8,
	"판타지": 9, "Fantasy": 9,
	"역사": 10, "History": 10,
	"공포": 11, "Horror": 11,
	"음악": 12, "Music": 12,
	"미스터리": 13, "Mystery": 13,
	"로맨스": 14, "Romance": 14,
	"SF": 15, "Sci-Fi": 15,
	"스릴러": 16, "Thriller": 16,
}

// GenreID resolves a genre name to its backend id.
func GenreID(name string) (int, bool) {
	id, ok := genreIDs[name]
	return id, ok
}
