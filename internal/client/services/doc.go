// Package services contains the application services of the admin console.
//
// AuthService gates the console behind an admin login and keeps the session
// between runs. DirectoryService ties the backend client, the local roster
// and the form validator together and implements the create, edit, delete,
// reload and search workflows in either confirmed or optimistic mode.
package services
