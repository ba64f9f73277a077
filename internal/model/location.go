package model

// Destination представляет направление из блока "Top Destinations" на главной странице.
type Destination struct {
	Name string `yaml:"name"`
}

// Contact содержит контактные данные агентства.
type Contact struct {
	Phones      []string `yaml:"phones"`
	PhonesPlain []string `yaml:"phones_plain"`
	Emails      []string `yaml:"emails"`
	Address     string   `yaml:"address"`
}

// Site содержит весь контент маркетинговой страницы.
type Site struct {
	Brand        string        `yaml:"brand"`
	Tagline      string        `yaml:"tagline"`
	Hero         string        `yaml:"hero"`
	About        string        `yaml:"about"` // markdown
	Destinations []Destination `yaml:"destinations"`
	Packages     []TripPackage `yaml:"packages"`
	Contact      Contact       `yaml:"contact"`
}
