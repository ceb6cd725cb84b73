package model

import (
	"fmt"
	"strconv"
)

// ID is the stable, user-facing document identifier.
// Uniqueness across a corpus is an integrity invariant.
type ID uint64

// String returns the decimal form used in doc:<id> references.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Document is one extracted article.
type Document struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	// OutgoingTitles holds raw link targets in the order they appear in Text.
	OutgoingTitles []string `json:"outgoing_titles"`
}

// String returns a short representation of the Document.
func (d Document) String() string {
	return fmt.Sprintf("Doc(%d:%q)", d.ID, d.Title)
}

// Redirect maps an alias title to its target title.
type Redirect struct {
	Title  string `json:"title"`
	Target string `json:"target"`
}
