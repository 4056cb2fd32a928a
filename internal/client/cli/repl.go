package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	ClearSearch(ctx context.Context) error
	Page(ctx context.Context, arg string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Size(ctx context.Context, arg string) error
	Reload(ctx context.Context) error
	Find(ctx context.Context, keyword string) error
	Dept(ctx context.Context, arg string) error

	Show(ctx context.Context, arg string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
}

const (
	helpSignedOut = "Available commands: login, help, exit"
	helpSignedIn  = `Available commands:
  (l)ist                 show the current page
  search <term>          filter the loaded users; clear drops the filter
  page <n>, next, prev   move between pages
  size <5|10|25>         rows per page
  reload                 fetch all users again
  find <keyword>         ask the server for matching users
  dept <DEPARTMENT>      load one department (IT, HR, FINANCE, OPERATIONS)
  show <id>              user details
  add, edit <id>         create or change a user
  delete <id>            remove a user
  logout, exit`
)

// commands that need a session
var guarded = map[string]bool{
	"l": true, "list": true, "search": true, "clear": true, "page": true, "next": true,
	"prev": true, "size": true, "reload": true, "find": true, "dept": true, "show": true,
	"add": true, "edit": true, "delete": true, "logout": true,
}

// runREPL reads commands from reader until EOF, exit or quit. The first token
// is the command and the rest of the line is its argument. Without a session
// only help, login and exit are accepted. Handler errors are reported by the
// handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("users %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		if guarded[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, arg)

		case "clear":
			_ = a.ClearSearch(ctx)

		case "page":
			_ = a.Page(ctx, arg)

		case "next":
			_ = a.Next(ctx)

		case "prev":
			_ = a.Prev(ctx)

		case "size":
			_ = a.Size(ctx, arg)

		case "reload":
			_ = a.Reload(ctx)

		case "find":
			_ = a.Find(ctx, arg)

		case "dept":
			_ = a.Dept(ctx, arg)

		case "show":
			_ = a.Show(ctx, arg)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx, arg)

		case "delete":
			_ = a.Delete(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
