package model

// JobInput is everything the draft generator feeds into one prompt.
type JobInput struct {
	JobPath        string
	JobContent     string
	ResumeTemplate string
	CoverTemplate  string
}

// Drafts is the provider reply for a job posting. Missing fields decode as "".
type Drafts struct {
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`
}
