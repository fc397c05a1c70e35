package storage

import "strings"

// likeEscaper neutralizes the LIKE wildcards in user-supplied search
// terms. Queries using the result must declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	"%", `\%`,
	"_", `\_`,
)

func sanitizeSearchTerm(term string) string {
	return likeEscaper.Replace(term)
}
