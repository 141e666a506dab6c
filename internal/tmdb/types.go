package tmdb

// Title is the trimmed projection of a movie or series returned to the
// assistant. Field names keep TMDB's snake_case so the model sees familiar
// shapes.
type Title struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	VoteAverage float64  `json:"vote_average,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	GenreIDs    []int64  `json:"genre_ids,omitempty"`
}

// Details extends Title with the extra fields of a detail lookup.
type Details struct {
	Title
	Runtime int      `json:"runtime,omitempty"`
	Status  string   `json:"status,omitempty"`
	Tagline string   `json:"tagline,omitempty"`
	Cast    []string `json:"cast,omitempty"`
}

// Person is a trimmed person search result.
type Person struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	KnownForDepartment string   `json:"known_for_department,omitempty"`
	KnownFor           []string `json:"known_for,omitempty"`
}

// Credit is one filmography entry.
type Credit struct {
	Title
	Character string `json:"character,omitempty"`
	MediaType string `json:"media_type"`
}

// rawTitle covers both movie and TV shapes; movies use title/release_date,
// series use name/first_air_date.
type rawTitle struct {
	ID           int64   `json:"id"`
	TitleField   string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int64 `json:"genre_ids"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (r rawTitle) name() string {
	if r.TitleField != "" {
		return r.TitleField
	}
	return r.Name
}

func (r rawTitle) releaseDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

func (r rawTitle) trim() Title {
	t := Title{
		ID:          r.ID,
		Title:       r.name(),
		Overview:    r.Overview,
		ReleaseDate: r.releaseDate(),
		VoteAverage: r.VoteAverage,
		GenreIDs:    r.GenreIDs,
	}
	for _, g := range r.Genres {
		t.Genres = append(t.Genres, g.Name)
	}
	return t
}

type listResponse struct {
	Results []rawTitle `json:"results"`
}

type detailsResponse struct {
	rawTitle
	Runtime        int    `json:"runtime"`
	EpisodeRunTime []int  `json:"episode_run_time"`
	Status         string `json:"status"`
	Tagline        string `json:"tagline"`
	Credits        struct {
		Cast []struct {
			Name      string `json:"name"`
			Character string `json:"character"`
		} `json:"cast"`
	} `json:"credits"`
}

type personListResponse struct {
	Results []struct {
		ID                 int64      `json:"id"`
		Name               string     `json:"name"`
		KnownForDepartment string     `json:"known_for_department"`
		KnownFor           []rawTitle `json:"known_for"`
	} `json:"results"`
}

type rawCredit struct {
	rawTitle
	Character string `json:"character"`
}

type creditsResponse struct {
	Cast []rawCredit `json:"cast"`
}
