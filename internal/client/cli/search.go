package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/services"
)

// Search runs a free-text faculty search and prints the rows as a table.
func (a *App) Search(ctx context.Context, query string) error {
	if !a.requireLogin(ctx) {
		return services.ErrNotAuthenticated
	}

	rows, err := a.directory.SearchFaculty(ctx, models.SearchParams{Query: query})
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.track(ctx, nil)

	if len(rows) == 0 {
		a.println("No faculty found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDEPARTMENT\tINSTITUTION\tID")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", r.FirstName, r.LastName, r.DepartmentName, r.InstitutionName, r.FacultyID)
	}
	return tw.Flush()
}

// Institutions prints the institution list.
func (a *App) Institutions(ctx context.Context) error {
	list, err := a.directory.Institutions(ctx)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.track(ctx, nil)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCITY")
	for _, inst := range list {
		fmt.Fprintf(tw, "%s\t%s\n", inst.Name, inst.City)
	}
	return tw.Flush()
}
