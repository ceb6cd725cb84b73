// Package corpus reads the extracted corpus: newline-delimited JSON document
// and redirect records, optionally compressed.
//
// Document records:
//
//	{"id": 12, "title": "Alan Turing", "text": "...", "outgoing_titles": ["Enigma machine"]}
//
// Redirect records:
//
//	{"title": "Turing", "target": "Alan Turing"}
//
// Blank lines are skipped. Lines may be arbitrarily long.
package corpus
