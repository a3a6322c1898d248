package captions

import "fmt"

// TitleCardFor sizes the title card so it ends where the token after the
// anchor begins.
func TitleCardFor(tokens []Token, anchor, fps int) (TitleCard, error) {
	next := anchor + 1
	if anchor < 0 || next >= len(tokens) {
		return TitleCard{}, &AlignmentError{Index: anchor, Reason: fmt.Sprintf("no token follows anchor %d", anchor)}
	}
	frames := frameAt(tokens[next].StartInSeconds, fps)
	if frames < 0 {
		frames = 0
	}
	return TitleCard{DurationInFrames: frames}, nil
}

// CaptionSource returns the tokens that become captions for the given anchor.
func CaptionSource(tokens []Token, anchor int, boundary Boundary) []Token {
	first := anchor + 1
	if boundary == BoundaryAtAnchor {
		first = anchor
	}
	if first < 0 {
		first = 0
	}
	if first >= len(tokens) {
		return nil
	}
	return tokens[first:]
}

// ScheduleCaptions turns tokens into caption entries. Each caption runs until
// the next token starts, capped at one second (fps frames). Entries with no
// positive duration, and entries that would start before an already emitted
// one, are dropped so FromFrame never decreases.
func ScheduleCaptions(tokens []Token, fps int) []Entry {
	source, _ := Sanitize(tokens)
	entries := make([]Entry, 0, len(source))
	lastFrom := -1
	for i, tok := range source {
		start := frameAt(tok.StartInSeconds, fps)
		end := start + fps
		if i+1 < len(source) {
			if next := frameAt(source[i+1].StartInSeconds, fps); next < end {
				end = next
			}
		}
		duration := end - start
		if duration <= 0 || start < lastFrom {
			continue
		}
		entries = append(entries, Entry{FromFrame: start, DurationInFrames: duration, Text: tok.Text})
		lastFrom = start
	}
	return entries
}
