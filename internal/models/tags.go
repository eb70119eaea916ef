package models

import "strings"

// TagDelimiter separates tags in their stored text form.
const TagDelimiter = ","

// TagsToText trims every tag, drops the empty ones and joins the rest.
// It returns nil when nothing is left. Duplicates are kept.
func TagsToText(tags []string) *string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	text := strings.Join(cleaned, TagDelimiter)
	return &text
}

// TagsFromText splits the stored form back into a list. The result is never nil.
func TagsFromText(text *string) []string {
	tags := []string{}
	if text == nil {
		return tags
	}
	for _, t := range strings.Split(*text, TagDelimiter) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
