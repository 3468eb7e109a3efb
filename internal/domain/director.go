package domain

type Director struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	RecommendedFilms []*Film `json:"recommendedFilms"`
}

func (d *Director) HasFilms() bool {
	return d != nil && len(d.RecommendedFilms) > 0
}
