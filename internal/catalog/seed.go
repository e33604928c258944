package catalog

import "github.com/iliaxp/LiberaryApplication/internal/domain"

const imageHost = "https://zabanmehrpub.com/wp-content/uploads/"

// SeedBooks returns the built-in catalog in display order. Each call returns a
// fresh slice.
func SeedBooks() []domain.Book {
	return []domain.Book{
		{
			ID: "1", Name: "Atomic Habits", Price: 2000, Rating: 4.5,
			ImageURL:    imageHost + "2020/04/Atomic-Habits.webp",
			Category:    domain.CategoryRomance,
			Author:      "James Clear",
			Description: "A practical guide to building good habits and breaking bad ones through small, steady changes.",
		},
		{
			ID: "2", Name: "Animal Farm", Price: 1800, Rating: 4.8,
			ImageURL:    imageHost + "Animal-Farm-3.jpg",
			Category:    domain.CategoryRomance,
			Author:      "Harper Lee",
			Description: "Farm animals overthrow their owner, only to watch the new order turn into the tyranny they fought.",
		},
		{
			ID: "3", Name: "1984 Nineteen Eighty Four", Price: 1500, Rating: 4.7,
			ImageURL:    imageHost + "1984.jpg",
			Category:    domain.CategoryRomance,
			Author:      "George Orwell",
			Description: "Winston Smith lives under the constant watch of Big Brother in a state that rewrites the past.",
		},
		{
			ID: "4", Name: "Twilight", Price: 2500, Rating: 4.9,
			ImageURL:    imageHost + "2018/10/Twilight.jpg",
			Category:    domain.CategoryHorror,
			Author:      "Stephenie Meyer",
			Description: "A teenager moves to a rainy town and falls for a classmate who hides a dangerous secret.",
		},
		{
			ID: "5", Name: "The Shining", Price: 400, Rating: 4.6,
			ImageURL:    imageHost + "2023/07/The-Shining.jpg",
			Category:    domain.CategoryHorror,
			Author:      "Jane Austen",
			Description: "A winter caretaker and his family are snowed in at an isolated hotel with a violent history.",
		},
		{
			ID: "6", Name: "The Catcher in the Rye", Price: 900, Rating: 4.3,
			ImageURL:    imageHost + "2023/07/The-Catcher-in-the-Rye-2.jpg",
			Category:    domain.CategoryHorror,
			Author:      "J.D. Salinger",
			Description: "Holden Caulfield drifts through New York for three days after being expelled from school.",
		},
		{
			ID: "7", Name: "The Hundred Year Old Man", Price: 2100, Rating: 4.3,
			ImageURL:    imageHost + "2023/07/Zamir.jpg",
			Category:    domain.CategoryScience,
			Author:      "Jonas Jonasson",
			Description: "On his hundredth birthday Allan climbs out of a window and stumbles into one last adventure.",
		},
		{
			ID: "8", Name: "Zamir", Price: 1300, Rating: 4.3,
			ImageURL:    imageHost + "The-Hundred-Year-Old-Man.jpg",
			Category:    domain.CategoryScience,
			Author:      "Hakan Günday",
			Description: "A dark novel about a man shaped by war, exile and the stories he tells to survive.",
		},
		{
			ID: "9", Name: "The Good Terrorist", Price: 2200, Rating: 4.3,
			ImageURL:    imageHost + "product_2672_1561485061_48202.jpg",
			Category:    domain.CategoryScience,
			Author:      "Doris Lessing",
			Description: "A squat of would-be revolutionaries in London edges from talk toward violence.",
		},
		{
			ID: "10", Name: "Brief Answers to the Big Questions", Price: 1000, Rating: 4.3,
			ImageURL:    imageHost + "2019/07/600.jpg",
			Category:    domain.CategoryFiction,
			Author:      "Stephen Hawking",
			Description: "Short essays on God, time travel, black holes and the future of humanity.",
		},
		{
			ID: "11", Name: "Powerless", Price: 1000, Rating: 4.3,
			ImageURL:    imageHost + "2024/06/Powerless.jpg",
			Category:    domain.CategoryFiction,
			Author:      "Lauren Roberts",
			Description: "An ordinary girl hides among the gifted elite of a kingdom that executes the powerless.",
		},
		{
			ID: "12", Name: "Crenshaw", Price: 800, Rating: 4.3,
			ImageURL:    imageHost + "2023/12/Crenshaw.jpg",
			Category:    domain.CategoryFiction,
			Author:      "Katherine Applegate",
			Description: "When his family falls on hard times, a boy's imaginary cat comes back to help.",
		},
		{
			ID: "13", Name: "Babel", Price: 500, Rating: 4.3,
			ImageURL:    imageHost + "2023/08/Babel.jpg",
			Category:    domain.CategoryHistory,
			Author:      "harper voyager",
			Description: "Translators at an Oxford institute discover the cost of the silver magic that powers an empire.",
		},
		{
			ID: "14", Name: "The Great Gatsby", Price: 700, Rating: 4.3,
			ImageURL:    imageHost + "the-Great-Gatsby-2.jpg",
			Category:    domain.CategoryHistory,
			Author:      "Vintage Classics",
			Description: "A mysterious millionaire throws lavish parties on Long Island to win back a lost love.",
		},
		{
			ID: "15", Name: "The Giver of stars", Price: 400, Rating: 4.3,
			ImageURL:    imageHost + "jojo-moyes-the-giver-of-stars-1.jpg",
			Category:    domain.CategoryHistory,
			Author:      "penguin",
			Description: "Women of a Kentucky packhorse library carry books through the mountains in the 1930s.",
		},
		{
			ID: "16", Name: "The Alchemist", Price: 900, Rating: 4.3,
			ImageURL:    imageHost + "the-Alchemist-1.jpg",
			Category:    domain.CategoryDrama,
			Author:      "paulo coelho",
			Description: "A shepherd boy travels from Spain to Egypt in search of a treasure he saw in a dream.",
		},
		{
			ID: "17", Name: "A Little Life", Price: 1500, Rating: 4.3,
			ImageURL:    imageHost + "2023/10/A-Little-Life.jpg",
			Category:    domain.CategoryDrama,
			Author:      "Random House Audio",
			Description: "Four college friends build lives in New York around one of them, who carries a hidden past.",
		},
		{
			ID: "18", Name: "Hamlet", Price: 1200, Rating: 4.3,
			ImageURL:    imageHost + "2019/07/Hamlet.jpg",
			Category:    domain.CategoryDrama,
			Author:      "William Shakespeare",
			Description: "The prince of Denmark seeks revenge on the uncle who murdered his father and took the crown.",
		},
	}
}
