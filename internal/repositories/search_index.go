package repository

import (
	"strings"
	"unicode"
	"unicode/utf8"

	model "complaint-desk.com/complaint-desk/internal/models"
)

const maxTermLength = 64

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "i": {}, "in": {}, "is": {}, "it": {},
	"my": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"was": {}, "were": {}, "with": {},
}

// Tokenize splits text into lower-cased, de-duplicated index terms.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		w = truncateTerm(w)
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

// truncateTerm cuts w to at most maxTermLength bytes on a rune boundary.
func truncateTerm(w string) string {
	if len(w) <= maxTermLength {
		return w
	}

	end := 0
	for end < len(w) {
		_, size := utf8.DecodeRuneInString(w[end:])
		if end+size > maxTermLength {
			break
		}
		end += size
	}
	return w[:end]
}

func complaintTerms(c *model.Complaint) []model.ComplaintTerm {
	words := Tokenize(c.Title + " " + c.Description)
	terms := make([]model.ComplaintTerm, 0, len(words))
	for _, w := range words {
		terms = append(terms, model.ComplaintTerm{ComplaintID: c.ID, Term: w})
	}
	return terms
}
