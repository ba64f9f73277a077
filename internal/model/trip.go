package model

// TripPackage представляет готовый тур из блока "Popular Packages".
type TripPackage struct {
	Title string `yaml:"title"`
	Price int    `yaml:"price"` // цена "от", в долларах
	Image string `yaml:"image"` // ключевое слово для картинки
}
