package captions

import (
	"strings"

	"storyreel/internal/textutil"
)

// LocateAnchor returns the index of the first token whose normalized text
// contains the normalized last word of title. An anchor on the final token is
// rejected because the title card needs the following token's start time.
func LocateAnchor(tokens []Token, title string) (int, error) {
	word, ok := textutil.LastWord(title)
	if !ok {
		return -1, &AlignmentError{Index: -1, Reason: "title has no words"}
	}
	for i, tok := range tokens {
		if !strings.Contains(textutil.Normalize(tok.Text), word) {
			continue
		}
		if i+1 >= len(tokens) {
			return -1, &AlignmentError{Word: word, Index: i, Reason: "title ends on the final transcript token"}
		}
		return i, nil
	}
	return -1, &AlignmentError{Word: word, Index: -1, Reason: "no transcript token contains the last title word"}
}
