package controllers

import (
	"sort"
	"strconv"
	"strings"

	"booknest/models"

	"github.com/gin-gonic/gin"
)

type BookController struct{}

func NewBookController() *BookController {
	return &BookController{}
}

// ListBooks godoc
// @Summary List books
// @Description List the catalog with optional search, tag filter and sorting
// @Tags Books
// @Produce json
// @Param search query string false "Match against title or author"
// @Param tag query string false "Filter by tag"
// @Param sort query string false "price_asc or price_desc"
// @Success 200 {object} models.Response
// @Router /books [get]
func (ctrl *BookController) ListBooks(c *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	tag := strings.TrimSpace(c.Query("tag"))
	sortBy := c.Query("sort")

	books := make([]models.Book, 0, len(models.Books))
	for _, book := range models.Books {
		if search != "" &&
			!strings.Contains(strings.ToLower(book.Title), search) &&
			!strings.Contains(strings.ToLower(book.Author), search) {
			continue
		}
		if tag != "" && !strings.EqualFold(book.Tag, tag) {
			continue
		}
		books = append(books, book)
	}

	switch sortBy {
	case "price_asc":
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price < books[j].Price })
	case "price_desc":
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price > books[j].Price })
	}

	c.JSON(200, gin.H{"success": true, "message": "Books retrieved", "data": books})
}

// GetBook godoc
// @Summary Get book
// @Description Get a single book by ID
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /books/{id} [get]
func (ctrl *BookController) GetBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid book ID"})
		return
	}

	book := models.FindBookByID(id)
	if book == nil {
		c.JSON(404, gin.H{"success": false, "message": "Book not found"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Book retrieved", "data": book})
}
