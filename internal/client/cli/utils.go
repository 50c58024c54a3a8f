package cli

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
)

// parseIndex turns a 1-based list number into an index below n.
func parseIndex(s string, n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (a *App) printFaculty(f *models.Faculty) {
	a.printf("  Name:        %s\n", f.FullName())
	a.printf("  Institution: %s\n", f.InstitutionName)
	printList := func(label string, v []string) {
		if len(v) > 0 {
			a.printf("  %-12s %s\n", label+":", strings.Join(v, ", "))
		}
	}
	printList("Titles", f.Titles)
	printList("Departments", f.Departments)
	printList("Emails", f.Emails)
	printList("Phones", f.Phones)

	printField := func(label, v string) {
		if v != "" {
			a.printf("  %-12s %s\n", label+":", v)
		}
	}
	printField("ORCID", f.ORCID)
	printField("Scholar", f.GoogleScholarURL)
	printField("ResearchGate", f.ResearchGateURL)
	if f.Biography != "" {
		a.printf("\n%s\n", f.Biography)
	}
}
