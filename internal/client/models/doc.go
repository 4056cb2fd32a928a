// Package models defines the client-side data model of the user directory:
// users, their enumerated roles and departments, create/edit drafts, partial
// updates and the login exchange.
package models
