package cli

import (
	"fmt"
	"strings"

	"biblio/internal/api"
	"biblio/internal/view"
)

const dateOnly = "2006-01-02"

// renderHeading prints a section heading the way the dashboard frames its
// panels.
func renderHeading(o *IO, title string) {
	o.Println()
	o.Println(title)
	o.Println(strings.Repeat("-", len(title)))
}

// renderLoanCards prints loan cards. An empty result always renders a
// placeholder line; a filtered-out list must never look like a render failure.
func renderLoanCards(o *IO, cards []view.LoanCard) {
	if len(cards) == 0 {
		o.Println("No loans found.")

		return
	}

	for _, card := range cards {
		o.Printf("#%d  %s\n", card.LoanID, card.Title)
		o.Printf("    reader: %s\n", card.Reader)
		o.Printf("    status: %s\n", card.Class)
		o.Printf("    %s: %s\n", card.DateLabel, card.Date.Format(dateOnly))

		if card.CanFinalize {
			o.Printf("    (finalize with 'return %d')\n", card.LoanID)
		}
	}
}

// renderBookCards prints catalog cards, placeholder included.
func renderBookCards(o *IO, cards []view.BookCard) {
	if len(cards) == 0 {
		o.Println("No books found.")

		return
	}

	for _, card := range cards {
		o.Printf("%s (%d)\n", card.Title, card.Year)
		o.Printf("    author: %s\n", card.Author)
		o.Printf("    publisher: %s\n", card.Publisher)
		o.Printf("    isbn: %s | copies: %d\n", card.ISBN, card.Copies)
	}
}

// renderSummary prints the home panel's headline numbers.
func renderSummary(o *IO, s view.Summary) {
	o.Printf("Total copies:    %d\n", s.TotalCopies)
	o.Printf("Active readers:  %d\n", s.ActiveReaders)
	o.Printf("Overdue loans:   %d\n", s.OverdueLoans)
}

// renderAuthors prints the author list.
func renderAuthors(o *IO, authors []api.Author) {
	if len(authors) == 0 {
		o.Println("No authors found.")

		return
	}

	for _, author := range authors {
		line := fmt.Sprintf("#%d  %s", author.ID, strings.TrimSpace(author.Name+" "+author.Surname))

		if author.Nationality != "" {
			line += " (" + author.Nationality + ")"
		}

		o.Println(line)
	}
}

// renderGenres prints the genre list.
func renderGenres(o *IO, genres []api.Genre) {
	if len(genres) == 0 {
		o.Println("No genres found.")

		return
	}

	for _, genre := range genres {
		o.Printf("#%d  %s\n", genre.ID, genre.Name)
	}
}

// renderReaders prints the reader list used when picking a loan target.
func renderReaders(o *IO, readers []api.User) {
	if len(readers) == 0 {
		o.Println("No readers found.")

		return
	}

	for _, reader := range readers {
		o.Printf("#%d  %s\n", reader.ID, strings.TrimSpace(reader.Name+" "+reader.Surname))
	}
}
