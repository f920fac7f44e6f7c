package application

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "categoryID" -> "category ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"categoryID":   "category ID",
		"categoryName": "category name",
		"siteID":       "site ID",
		"sourceID":     "source ID",
		"sourceName":   "source name",
		"repository":   "repository",
		"credential":   "access token",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateURL checks that value is an absolute http(s) URL
func ValidateURL(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected an http(s) URL, got: %s", value),
		}
	}
	return nil
}

// ValidateRepositoryName checks a bare repository name (no owner part)
func ValidateRepositoryName(fieldName, name string) error {
	if err := ValidateRequired(fieldName, name); err != nil {
		return err
	}
	for _, r := range name {
		ok := r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("invalid repository name: %s", name),
			}
		}
	}
	return nil
}
