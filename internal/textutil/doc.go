// Package textutil provides the text canonicalisation used to line spoken
// transcripts up with written titles, plus filename sanitising for output
// artefacts.
//
// Normalize strips every character that is neither an ASCII word character
// nor whitespace and lowercases the result. The normalized form is only ever
// used for comparison and is never shown to viewers.
package textutil
