package models

// Word is the word currently shown to the explainer.
type Word struct {
	ID   int    `json:"id"`
	Word string `json:"word"`
}
