package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/view"
)

var errUsage = errors.New("usage")

func (a *App) project() view.Projection {
	return a.view.Project(a.directory.Store().Snapshot())
}

// List prints the current page of the filtered roster.
func (a *App) List(ctx context.Context) error {
	p := a.project()
	if p.Empty() {
		if t := a.view.Params().Term; t != "" {
			fmt.Fprintf(a.out, "No users match %q.\n", t)
		} else {
			fmt.Fprintln(a.out, "No users found.")
		}
		return nil
	}

	renderTable(a.out, p.Items, a.pendingIDs())
	renderFooter(a.out, p, a.view.Params().Term)
	return nil
}

func (a *App) pendingIDs() map[int64]bool {
	ops := a.directory.Store().Pending()
	if len(ops) == 0 {
		return nil
	}
	ids := make(map[int64]bool, len(ops))
	for _, op := range ops {
		ids[op.UserID] = true
	}
	return ids
}

// Search filters the loaded roster locally and goes back to the first page.
func (a *App) Search(ctx context.Context, term string) error {
	a.view.SetSearchTerm(term)
	return a.List(ctx)
}

func (a *App) ClearSearch(ctx context.Context) error {
	a.view.SetSearchTerm("")
	return a.List(ctx)
}

// Page jumps to the 1-based page n.
func (a *App) Page(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		fmt.Fprintln(a.out, "Usage: page <n>")
		return errUsage
	}
	if p := a.project(); p.Pages > 0 && n > p.Pages {
		fmt.Fprintf(a.out, "There are only %d pages.\n", p.Pages)
		return errUsage
	}
	a.view.SetPage(n - 1)
	return a.List(ctx)
}

func (a *App) Next(ctx context.Context) error {
	a.view.Next(a.project())
	return a.List(ctx)
}

func (a *App) Prev(ctx context.Context) error {
	a.view.Prev()
	return a.List(ctx)
}

// Size changes the rows per page and goes back to the first page.
func (a *App) Size(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err == nil {
		err = a.view.SetPageSize(n)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Usage: size <%s>\n", joinSizes())
		return errUsage
	}
	return a.List(ctx)
}

func joinSizes() string {
	parts := make([]string, len(view.PageSizes))
	for i, s := range view.PageSizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, "|")
}

// Reload fetches the whole directory again.
func (a *App) Reload(ctx context.Context) error {
	if err := a.directory.Refresh(ctx); err != nil {
		a.report(ctx, err)
		return err
	}
	return a.List(ctx)
}

// Find replaces the roster with the server's search result for keyword.
func (a *App) Find(ctx context.Context, keyword string) error {
	if keyword == "" {
		fmt.Fprintln(a.out, "Usage: find <keyword>")
		return errUsage
	}
	if err := a.directory.Search(ctx, keyword); err != nil {
		a.report(ctx, err)
		return err
	}
	a.view.SetSearchTerm("")
	return a.List(ctx)
}

// Dept replaces the roster with the members of one department.
func (a *App) Dept(ctx context.Context, arg string) error {
	dept, err := models.ParseDepartment(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: dept <IT|HR|FINANCE|OPERATIONS>")
		return errUsage
	}
	if err := a.directory.ByDepartment(ctx, dept); err != nil {
		a.report(ctx, err)
		return err
	}
	a.view.SetSearchTerm("")
	return a.List(ctx)
}

// Show prints one user. Loaded records are shown as they are; others are
// fetched.
func (a *App) Show(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return err
	}

	u, err := a.lookup(ctx, id)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	renderUser(a.out, u)
	return nil
}

func (a *App) lookup(ctx context.Context, id int64) (models.User, error) {
	if u, ok := a.directory.Store().Get(id); ok {
		return u, nil
	}
	return a.directory.Get(ctx, id)
}

// Add runs the create dialog.
func (a *App) Add(ctx context.Context) error {
	f := form.NewCreateForm(a.validator)
	d, err := a.runForm(ctx, f)
	if err != nil {
		return err
	}

	u, err := a.directory.Create(ctx, d)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Created %s (id %d)\n", u.Email, u.ID)
	return nil
}

// Edit runs the edit dialog for user id. The email cannot be changed.
func (a *App) Edit(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return err
	}
	u, err := a.lookup(ctx, id)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	fmt.Fprintf(a.out, "Editing %s (email cannot be changed)\n", u.Email)
	f := form.NewEditForm(a.validator, u)
	d, err := a.runForm(ctx, f)
	if err != nil {
		return err
	}

	got, err := a.directory.Update(ctx, id, d)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", got.Email)
	return nil
}

// Delete removes user id after the operator confirms.
func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return err
	}

	who := fmt.Sprintf("user %d", id)
	if u, ok := a.directory.Store().Get(id); ok {
		who = fmt.Sprintf("%s (%s)", u.FullName(), u.Email)
	}
	ok, err := Confirm(a.reader, "Delete "+who+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.directory.Delete(ctx, id); err != nil {
		a.report(ctx, err)
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", who)
	return nil
}

// runForm prompts for every field, then only for the invalid ones, until the
// form submits.
func (a *App) runForm(ctx context.Context, f *form.Form) (models.Draft, error) {
	fields := form.Fields
	for {
		if err := a.fill(f, fields); err != nil {
			return models.Draft{}, err
		}
		d, err := f.Submit()
		if err == nil {
			return d, nil
		}
		a.report(ctx, err)
		fields = f.Invalid()
	}
}

// fill asks for fields. An empty answer keeps the shown value.
func (a *App) fill(f *form.Form, fields []string) error {
	for _, field := range fields {
		if field == form.FieldEmail && f.Editing() {
			continue
		}
		for {
			line, err := getSimpleText(a.reader, fieldPrompt(field, f.Draft()), a.out)
			if err != nil {
				return err
			}
			if line == "" {
				break
			}
			if err := f.Set(field, line); err != nil {
				fmt.Fprintf(a.out, "  %s\n", err)
				continue
			}
			break
		}
	}
	return nil
}

func fieldPrompt(field string, d models.Draft) string {
	switch field {
	case form.FieldEmail:
		return withCurrent("Email", d.Email)
	case form.FieldFirstName:
		return withCurrent("First name", d.FirstName)
	case form.FieldLastName:
		return withCurrent("Last name", d.LastName)
	case form.FieldRole:
		return withCurrent("Role (admin, employee)", d.Role.Label())
	case form.FieldDepartment:
		return withCurrent("Department (IT, HR, FINANCE, OPERATIONS)", string(d.Department))
	}
	return field
}

func withCurrent(label, current string) string {
	if current == "" {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, current)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, errUsage
	}
	return id, nil
}
