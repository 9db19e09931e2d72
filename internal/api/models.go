package api

import "time"

// Role values returned by the auth endpoints.
const (
	RoleLibrarian = "librarian"
	RoleReader    = "reader"
)

// Loan status tags as sent by the backend. "finalized" is a legacy synonym
// for "returned" that older records still carry.
const (
	StatusOnLoan    = "on_loan"
	StatusReturned  = "returned"
	StatusFinalized = "finalized"
)

// Author is a book author as returned by /authors.
type Author struct {
	ID          int    `json:"author_id"`
	Name        string `json:"name"`
	Surname     string `json:"surname,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// Genre is a book genre as returned by /genres.
type Genre struct {
	ID   int    `json:"genre_id"`
	Name string `json:"name"`
}

// Book is a catalog entry as returned by /books.
type Book struct {
	ID        int    `json:"book_id"`
	Title     string `json:"title"`
	ISBN      string `json:"isbn"`
	Publisher string `json:"publisher,omitempty"`
	Year      int    `json:"publication_year"`
	Copies    int    `json:"copies"`
	AuthorID  int    `json:"author_id"`
	GenreIDs  []int  `json:"genre_ids,omitempty"`
}

// User is a registered user (reader or librarian) as returned by /users.
type User struct {
	ID      int    `json:"user_id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Loan is a loan record as returned by /loans.
//
// Status moves monotonically from on_loan to returned and never reverts.
// ReturnedAt is set if and only if the loan is returned. IsOverdue is
// computed server-side and is meaningful only while the loan is active.
type Loan struct {
	ID                int        `json:"loan_id"`
	BookID            int        `json:"book_id"`
	ReaderID          int        `json:"reader_id"`
	LibrarianID       int        `json:"librarian_id"`
	ReturnLibrarianID int        `json:"return_librarian_id,omitempty"`
	LoanDate          time.Time  `json:"loan_date"`
	DueDate           time.Time  `json:"due_date"`
	ReturnedAt        *time.Time `json:"returned_at,omitempty"`
	Status            string     `json:"status"`
	IsOverdue         bool       `json:"is_overdue"`
}

// CreateAuthorRequest is the body for POST /authors/.
type CreateAuthorRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// CreateGenreRequest is the body for POST /genres/.
type CreateGenreRequest struct {
	Name string `json:"name"`
}

// CreateBookRequest is the body for POST /books/.
type CreateBookRequest struct {
	Title     string `json:"title"`
	ISBN      string `json:"isbn"`
	Publisher string `json:"publisher,omitempty"`
	Year      int    `json:"publication_year"`
	Copies    int    `json:"copies"`
	AuthorID  int    `json:"author_id"`
	GenreIDs  []int  `json:"genre_ids"`
}

// CreateLoanRequest is the body for POST /loans/.
type CreateLoanRequest struct {
	BookID      int       `json:"book_id"`
	ReaderID    int       `json:"reader_id"`
	LibrarianID int       `json:"librarian_id"`
	DueDate     time.Time `json:"due_date"`
}

// ReturnLoanRequest is the body for POST /loans/{id}/return.
type ReturnLoanRequest struct {
	ReturnLibrarianID int       `json:"return_librarian_id"`
	ReturnedAt        time.Time `json:"returned_at"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginReply is the successful response of POST /auth/login.
type LoginReply struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	UserID    int    `json:"id"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
