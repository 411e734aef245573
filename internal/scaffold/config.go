package scaffold

import "time"

const defaultTemplateBaseURL = "https://raw.githubusercontent.com/github/gitignore/main"

type Config struct {
	// TemplateBaseURL serves <Name>.gitignore files.
	TemplateBaseURL string
	// Timeout bounds a single template download.
	Timeout time.Duration
}
