package api

import (
	"bytes"
	"context"
	"fmt"
)

// fetchList fetches a collection endpoint. A not-found reply is an empty
// result for list-style queries, never a hard error.
func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	reply, err := c.Get(ctx, path)

	if apiErr := Classify(reply, err); apiErr != nil {
		if apiErr.Kind == KindNotFound {
			return nil, nil
		}

		return nil, apiErr
	}

	var items []T

	reply.Decode(&items)

	return items, nil
}

// fetchOne fetches a single-entity endpoint. The backend returns some
// entities as a bare object and others as a one-element list; both shapes
// decode to the same T. An empty list counts as not found.
func fetchOne[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T

	reply, err := c.Get(ctx, path)

	if apiErr := Classify(reply, err); apiErr != nil {
		return zero, apiErr
	}

	if body := bytes.TrimSpace(reply.Body); len(body) > 0 && body[0] == '[' {
		var items []T

		reply.Decode(&items)

		if len(items) == 0 {
			return zero, &Error{Status: reply.Status, Kind: KindNotFound, Message: "not found"}
		}

		return items[0], nil
	}

	var item T

	reply.Decode(&item)

	return item, nil
}

// create posts a body and decodes the created resource.
func create[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var zero T

	reply, err := c.Post(ctx, path, body)

	if apiErr := Classify(reply, err); apiErr != nil {
		return zero, apiErr
	}

	var item T

	reply.Decode(&item)

	return item, nil
}

// remove issues a DELETE and accepts the no-content success reply.
func (c *Client) remove(ctx context.Context, path string) error {
	reply, err := c.Delete(ctx, path)

	if apiErr := Classify(reply, err); apiErr != nil {
		return apiErr
	}

	return nil
}

// Authors lists all authors.
func (c *Client) Authors(ctx context.Context) ([]Author, error) {
	return fetchList[Author](ctx, c, "/authors/")
}

// AuthorByID fetches one author. The backend serves this endpoint as a
// one-element list.
func (c *Client) AuthorByID(ctx context.Context, id int) (Author, error) {
	return fetchOne[Author](ctx, c, fmt.Sprintf("/authors/%d", id))
}

// CreateAuthor registers a new author.
func (c *Client) CreateAuthor(ctx context.Context, req CreateAuthorRequest) (Author, error) {
	return create[Author](ctx, c, "/authors/", req)
}

// DeleteAuthor removes an author. Fails with a conflict when books still
// reference it.
func (c *Client) DeleteAuthor(ctx context.Context, id int) error {
	return c.remove(ctx, fmt.Sprintf("/authors/%d", id))
}

// Genres lists all genres.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	return fetchList[Genre](ctx, c, "/genres/")
}

// CreateGenre registers a new genre.
func (c *Client) CreateGenre(ctx context.Context, req CreateGenreRequest) (Genre, error) {
	return create[Genre](ctx, c, "/genres/", req)
}

// DeleteGenre removes a genre. Fails with a conflict when books still
// reference it.
func (c *Client) DeleteGenre(ctx context.Context, id int) error {
	return c.remove(ctx, fmt.Sprintf("/genres/%d", id))
}

// BooksByGenre lists the books tagged with a genre.
func (c *Client) BooksByGenre(ctx context.Context, genreID int) ([]Book, error) {
	return fetchList[Book](ctx, c, fmt.Sprintf("/genres/%d/books", genreID))
}

// Books lists the full catalog.
func (c *Client) Books(ctx context.Context) ([]Book, error) {
	return fetchList[Book](ctx, c, "/books/")
}

// BooksInStock lists books with at least one copy available to lend.
func (c *Client) BooksInStock(ctx context.Context) ([]Book, error) {
	return fetchList[Book](ctx, c, "/books/stock/")
}

// BookByID fetches one book.
func (c *Client) BookByID(ctx context.Context, id int) (Book, error) {
	return fetchOne[Book](ctx, c, fmt.Sprintf("/books/%d", id))
}

// CreateBook registers a new book.
func (c *Client) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	return create[Book](ctx, c, "/books/", req)
}

// DeleteBookWithLoans removes a book together with its loan records. The
// backend only allows this once every loan of the book is returned; otherwise
// it answers with a conflict.
func (c *Client) DeleteBookWithLoans(ctx context.Context, id int) error {
	return c.remove(ctx, fmt.Sprintf("/books/%d/with-loans", id))
}

// Readers lists all registered readers.
func (c *Client) Readers(ctx context.Context) ([]User, error) {
	return fetchList[User](ctx, c, "/users/readers/")
}

// UserByID fetches one user.
func (c *Client) UserByID(ctx context.Context, id int) (User, error) {
	return fetchOne[User](ctx, c, fmt.Sprintf("/users/%d", id))
}

// Loans lists all loans. The backend answers not-found when no loan exists;
// that comes back as an empty slice.
func (c *Client) Loans(ctx context.Context) ([]Loan, error) {
	return fetchList[Loan](ctx, c, "/loans/")
}

// LoansByReader lists the loans of one reader.
func (c *Client) LoansByReader(ctx context.Context, readerID int) ([]Loan, error) {
	return fetchList[Loan](ctx, c, fmt.Sprintf("/loans/reader/%d", readerID))
}

// CreateLoan registers a new loan.
func (c *Client) CreateLoan(ctx context.Context, req CreateLoanRequest) (Loan, error) {
	return create[Loan](ctx, c, "/loans/", req)
}

// ReturnLoan finalizes a loan, marking it returned.
func (c *Client) ReturnLoan(ctx context.Context, loanID int, req ReturnLoanRequest) (Loan, error) {
	return create[Loan](ctx, c, fmt.Sprintf("/loans/%d/return", loanID), req)
}
