package models

type Book struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	Price          float64 `json:"price"`
	Tag            string  `json:"tag"`
	LimitedEdition bool    `json:"limited_edition"`
	HotSale        bool    `json:"hot_sale"`
	Image          string  `json:"image"`
	Description    string  `json:"description"`
}

// Books is the catalog. It is a fixed in-memory roster, never mutated at
// runtime; orders snapshot title/price/image at purchase time so later
// catalog edits do not touch existing orders.
var Books = []Book{
	{
		ID:          1,
		Title:       "The Alchemist",
		Author:      "Paulo Coelho",
		Price:       399,
		Tag:         "Fiction",
		LimitedEdition: true,
		Image:       "https://m.media-amazon.com/images/I/617lxveUjYL.jpg",
		Description: "A novel that blends mysticism and self-discovery through a shepherd's journey to find treasure.",
	},
	{
		ID:          2,
		Title:       "Rich Dad Poor Dad",
		Author:      "Robert Kiyosaki",
		Price:       499,
		Tag:         "Finance",
		HotSale:     true,
		Image:       "https://cdn.kobo.com/book-images/c81ea4de-cfb7-415d-8634-314aad041fdb/1200/1200/False/rich-dad-poor-dad-9.jpg",
		Description: "A personal finance book that challenges traditional beliefs about money and investing.",
	},
	{
		ID:          3,
		Title:       "Atomic Habits",
		Author:      "James Clear",
		Price:       450,
		Tag:         "Self-Help",
		HotSale:     true,
		Image:       "https://upload.wikimedia.org/wikipedia/commons/0/06/Atomic_habits.jpg",
		Description: "A guide on how small changes lead to remarkable results. Break bad habits and build good ones.",
	},
	{
		ID:          4,
		Title:       "The Power of Your Subconscious Mind",
		Author:      "Joseph Murphy",
		Price:       300,
		Tag:         "Self-Help",
		LimitedEdition: true,
		Image:       "https://m.media-amazon.com/images/I/81gTwYAhU7L.jpg",
		Description: "A classic on harnessing the hidden powers of the subconscious mind.",
	},
	{
		ID:          5,
		Title:       "Ikigai",
		Author:      "Héctor García",
		Price:       350,
		Tag:         "Self-Help",
		LimitedEdition: true,
		Image:       "https://m.media-amazon.com/images/I/71cRwWclCvL._UF1000,1000_QL80_.jpg",
		Description: "The Japanese secret to a long and happy life, at the intersection of passion, mission, profession, and vocation.",
	},
	{
		ID:          6,
		Title:       "The Psychology of Money",
		Author:      "Morgan Housel",
		Price:       425,
		Tag:         "Finance",
		HotSale:     true,
		Image:       "https://m.media-amazon.com/images/I/71TRUbzcvaL.jpg",
		Description: "Timeless lessons on wealth, greed, and happiness.",
	},
	{
		ID:          7,
		Title:       "Justice League: Origin",
		Author:      "Geoff Johns",
		Price:       880,
		Tag:         "Comics",
		LimitedEdition: true,
		Image:       "https://m.media-amazon.com/images/I/91X2P2d6mOL.jpg",
		Description: "The World's Greatest Heroes unite for the first time against Darkseid.",
	},
	{
		ID:          8,
		Title:       "Superman: Red Son",
		Author:      "Mark Millar",
		Price:       940,
		Tag:         "Comics",
		Image:       "https://m.media-amazon.com/images/I/81M6jg4rT1L.jpg",
		Description: "What if Superman's rocket had landed in the Soviet Union?",
	},
	{
		ID:          9,
		Title:       "Deep Work",
		Author:      "Cal Newport",
		Price:       380,
		Tag:         "Self-Help",
		Image:       "https://m.media-amazon.com/images/I/81JJ7fyyKyS.jpg",
		Description: "Rules for focused success in a distracted world.",
	},
	{
		ID:          10,
		Title:       "Sapiens",
		Author:      "Yuval Noah Harari",
		Price:       550,
		Tag:         "History",
		HotSale:     true,
		Image:       "https://m.media-amazon.com/images/I/713jIoMO3UL.jpg",
		Description: "A brief history of humankind, from the Stone Age to the twenty-first century.",
	},
}

func FindBookByID(id int) *Book {
	for i := range Books {
		if Books[i].ID == id {
			return &Books[i]
		}
	}
	return nil
}
