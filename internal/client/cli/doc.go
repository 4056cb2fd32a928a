// Package cli is the interactive user-directory console.
//
// App restores the saved admin session or asks for credentials, then runs a
// line-oriented REPL over the loaded roster: paging and local filtering,
// server-side search and department queries, and the add, edit and delete
// dialogs. Commands other than help, login and exit need a session.
package cli
