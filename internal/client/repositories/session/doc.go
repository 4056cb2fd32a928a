// Package session persists the admin login between runs of the console.
//
// A session is the bearer token returned by the login endpoint together with
// the email and roles it was issued for. It is stored as key/value rows of
// the local SQLite database; saving always replaces the previous session as
// a whole.
package session
