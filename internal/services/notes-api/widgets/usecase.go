package widgets

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
)

const (
	maxPokemonID  = 898
	defaultCity   = "Lisbon"
	githubPerPage = 5
)

type Repo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Stars int    `json:"stars"`
}

type Pokemon struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Weather struct {
	City        string `json:"city"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
}

type Config struct {
	GitHubBaseURL  string
	PokeAPIBaseURL string
	UserAgent      string
}

type Usecase struct {
	http   *http.Client
	cfg    Config
	randID func() int
}

func New(c *http.Client, cfg Config) *Usecase {
	cfg.GitHubBaseURL = strings.TrimRight(cfg.GitHubBaseURL, "/")
	cfg.PokeAPIBaseURL = strings.TrimRight(cfg.PokeAPIBaseURL, "/")
	return &Usecase{
		http:   c,
		cfg:    cfg,
		randID: func() int { return rand.IntN(maxPokemonID) + 1 },
	}
}

type githubRepo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	StargazersCount int    `json:"stargazers_count"`
}

// GitHubRepos lists the user's most recently updated public repositories.
func (u *Usecase) GitHubRepos(ctx context.Context, user string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d",
		u.cfg.GitHubBaseURL, url.PathEscape(user), githubPerPage)

	var raw []githubRepo
	if err := getJSON(ctx, u.http, u.cfg.UserAgent, endpoint, &raw); err != nil {
		return nil, err
	}
	out := make([]Repo, 0, min(len(raw), githubPerPage))
	for _, r := range raw {
		if len(out) == githubPerPage {
			break
		}
		out = append(out, Repo{ID: r.ID, Name: r.Name, URL: r.HTMLURL, Stars: r.StargazersCount})
	}
	return out, nil
}

type pokeAPIPokemon struct {
	Name    string `json:"name"`
	Sprites struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
}

func (u *Usecase) RandomPokemon(ctx context.Context) (*Pokemon, error) {
	endpoint := fmt.Sprintf("%s/pokemon/%d", u.cfg.PokeAPIBaseURL, u.randID())

	var raw pokeAPIPokemon
	if err := getJSON(ctx, u.http, u.cfg.UserAgent, endpoint, &raw); err != nil {
		return nil, err
	}
	return &Pokemon{Name: raw.Name, Image: raw.Sprites.Other.OfficialArtwork.FrontDefault}, nil
}

// Weather is a fixed mock; only the city echoes the caller.
func (u *Usecase) Weather(city string) Weather {
	if city == "" {
		city = defaultCity
	}
	return Weather{City: city, Temperature: "19°C", Condition: "Partly Cloudy"}
}
