package view

import (
	"context"
	"time"

	"biblio/internal/api"
	"biblio/internal/loan"
)

// LoanCard is the display unit for one loan record.
type LoanCard struct {
	LoanID int
	Title  string
	Reader string

	// Class is the status indicator: exactly one of returned, overdue or
	// in-time per loan.Classify.
	Class loan.Class

	// DateLabel is context-sensitive: "returned on" for finished loans,
	// "expected return" otherwise.
	DateLabel string
	Date      time.Time

	// CanFinalize is set only while the loan is not yet returned; it is
	// what gates the finalize action control.
	CanFinalize bool
}

// BuildLoanCards enriches loan records into display units. Book titles and
// reader names are resolved through the per-render memo; independent lookups
// run concurrently and the pass waits for all of them.
func BuildLoanCards(ctx context.Context, r *Resolver, records []api.Loan) []LoanCard {
	lookups := make([]Lookup, 0, 2*len(records))
	for _, record := range records {
		lookups = append(lookups,
			Lookup{Kind: KindBook, ID: record.BookID},
			Lookup{Kind: KindReader, ID: record.ReaderID},
		)
	}

	r.ResolveAll(ctx, lookups)

	cards := make([]LoanCard, 0, len(records))

	for _, record := range records {
		class := loan.Classify(record)

		card := LoanCard{
			LoanID: record.ID,
			Title:  r.Resolve(ctx, KindBook, record.BookID),
			Reader: r.Resolve(ctx, KindReader, record.ReaderID),
			Class:  class,
		}

		if class == loan.ClassReturned {
			card.DateLabel = "returned on"
			card.Date = record.DueDate

			if record.ReturnedAt != nil {
				card.Date = *record.ReturnedAt
			}
		} else {
			card.DateLabel = "expected return"
			card.Date = record.DueDate
			card.CanFinalize = true
		}

		cards = append(cards, card)
	}

	return cards
}

// BookCard is the display unit for one catalog entry.
type BookCard struct {
	Title     string
	Year      int
	Author    string
	Publisher string
	ISBN      string
	Copies    int
}

// BuildBookCards enriches books with resolved author names.
func BuildBookCards(ctx context.Context, r *Resolver, books []api.Book) []BookCard {
	lookups := make([]Lookup, 0, len(books))
	for _, book := range books {
		lookups = append(lookups, Lookup{Kind: KindAuthor, ID: book.AuthorID})
	}

	r.ResolveAll(ctx, lookups)

	cards := make([]BookCard, 0, len(books))

	for _, book := range books {
		publisher := book.Publisher
		if publisher == "" {
			publisher = "N/A"
		}

		cards = append(cards, BookCard{
			Title:     book.Title,
			Year:      book.Year,
			Author:    r.Resolve(ctx, KindAuthor, book.AuthorID),
			Publisher: publisher,
			ISBN:      book.ISBN,
			Copies:    book.Copies,
		})
	}

	return cards
}

// Summary holds the home section's headline numbers.
type Summary struct {
	TotalCopies   int
	ActiveReaders int
	OverdueLoans  int
}

// BuildSummary computes the home summary. Overdue counting follows the
// original dashboard: only active loans count, compared at day granularity
// against today.
func BuildSummary(books []api.Book, readers []api.User, loans []api.Loan, today time.Time) Summary {
	s := Summary{ActiveReaders: len(readers)}

	for _, book := range books {
		s.TotalCopies += book.Copies
	}

	year, month, day := today.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, today.Location())

	for _, record := range loans {
		if loan.Classify(record) == loan.ClassReturned {
			continue
		}

		dueYear, dueMonth, dueDay := record.DueDate.Date()

		dueStart := time.Date(dueYear, dueMonth, dueDay, 0, 0, 0, 0, record.DueDate.Location())
		if dueStart.Before(todayStart) {
			s.OverdueLoans++
		}
	}

	return s
}
