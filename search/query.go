package search

import (
	"strconv"
	"strings"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Query is the parsed form of a history search such as
// `pick up --from Mom --limit 5`.
type Query struct {
	RawInput string // The original input
	Terms    string // Free text matched against message bodies
	From     string // Exact sender filter, case-insensitive
	Limit    int    // Number of results
}

// NewQuery parses a raw string with command-line style flags.
// Unknown flags are ignored together with their value.
func NewQuery(input string) Query {
	query := Query{RawInput: input, Limit: defaultLimit}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "from":
				query.From = val
			case "limit":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					query.Limit = min(n, maxLimit)
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}
		textTerms = append(textTerms, part)
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
