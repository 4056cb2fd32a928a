package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/view"
)

const dateLayout = "2006-01-02 15:04"

func renderTable(w io.Writer, users []models.User, pending map[int64]bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEmail\tFirst Name\tLast Name\tRole\tDepartment\tCreated At\t")
	for _, u := range users {
		id := fmt.Sprint(u.ID)
		if pending[u.ID] {
			id += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			id, u.Email, u.FirstName, u.LastName, u.Role.Label(), u.Department.Label(), formatTime(u.CreatedAt))
	}
	tw.Flush()
}

func renderFooter(w io.Writer, p view.Projection, term string) {
	line := fmt.Sprintf("%s, page %d of %d, %d per page", p.Range(), p.Page+1, max(p.Pages, 1), p.PageSize)
	if term != "" {
		line += fmt.Sprintf(", filter %q", term)
	}
	fmt.Fprintln(w, line)
}

func renderUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.FullName())
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role.Label())
	fmt.Fprintf(tw, "Department:\t%s\n", u.Department.Label())
	fmt.Fprintf(tw, "Created At:\t%s\n", formatTime(u.CreatedAt))
	if u.UpdatedAt != nil {
		fmt.Fprintf(tw, "Updated At:\t%s\n", formatTime(*u.UpdatedAt))
	}
	if u.ProfileURL != "" {
		fmt.Fprintf(tw, "Profile:\t%s\n", u.ProfileURL)
	}
	tw.Flush()
}

func formatTime(t models.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
