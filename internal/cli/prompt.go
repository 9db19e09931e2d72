package cli

import (
	"bufio"
	"fmt"
	"strings"
)

// ConfirmRequest describes a destructive action awaiting confirmation. The
// message must spell out the exact consequence (including cascade
// conditions); the label names the action being confirmed.
type ConfirmRequest struct {
	Title   string
	Message string
	Label   string
}

// Confirmer asks the user to confirm a destructive action before any network
// call is made. Implementations block until the user answers; there is no
// timeout.
type Confirmer interface {
	Confirm(req ConfirmRequest) (bool, error)
}

// stdinConfirmer prompts on the terminal. Anything other than an explicit
// yes counts as a cancel.
type stdinConfirmer struct {
	in *bufio.Reader
	o  *IO
}

// NewConfirmer creates a Confirmer reading answers from in.
func NewConfirmer(in *bufio.Reader, o *IO) Confirmer {
	return &stdinConfirmer{in: in, o: o}
}

func (c *stdinConfirmer) Confirm(req ConfirmRequest) (bool, error) {
	c.o.Println()
	c.o.Println("==", req.Title, "==")
	c.o.Println(req.Message)
	c.o.Printf("%s? Type 'yes' to proceed: ", req.Label)

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "yes" || answer == "y", nil
}
