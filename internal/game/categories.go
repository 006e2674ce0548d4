package game

// Categories is the master list rounds are sampled from.
var Categories = []string{
	"Fruit", "Country", "Animal", "Movie", "Color", "Sport", "City", "Food", "Book", "Clothing",
	"Vehicle", "Plant", "Occupation", "Musical Instrument", "Furniture", "Drink", "Dessert",
	"Vegetable", "Bird", "Fish", "Insect", "Reptile", "Mammal", "Tree", "Flower",
	"Mountain", "River", "Lake", "Ocean", "Island", "Planet", "Star", "Constellation",
	"Weather", "Season", "Holiday", "Festival", "Game", "Toy", "Tool", "Weapon",
	"Building", "Room", "Appliance", "Electronics", "Software", "Website", "App", "Brand",
	"Company", "Job Title", "School Subject", "Language", "Currency", "Law", "Crime",
	"Sport Team", "Athlete", "Coach", "Dance", "Song", "Album", "Band", "Artist",
	"Painting", "Sculpture", "Museum", "Theater", "Play", "Actor", "Director", "Writer",
	"Poet", "Novel", "Poem", "Magazine", "Newspaper", "TV Show", "Cartoon", "Superhero",
	"Villain", "Mythical Creature", "God", "Religion", "Ceremony", "Tradition", "Custom",
	"Fashion", "Jewelry", "Shoe", "Hat", "Bag", "Fabric", "Material", "Element",
	"Chemical", "Disease", "Medicine", "Body Part", "Emotion",
}

const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
