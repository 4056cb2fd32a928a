// Package devapi is an in-memory implementation of the user-management REST
// API, used to run the console locally and to test it end to end.
//
// Routes:
//
//	POST   /api/users/login
//	GET    /api/users
//	POST   /api/users
//	GET    /api/users/search?keyword=
//	GET    /api/users/department/{department}
//	GET    /api/users/{id}
//	PUT    /api/users/{email}
//	DELETE /api/users/{id}
//
// Every route except login needs a bearer token of an admin account. Errors
// are JSON objects of the form {"message": "..."}.
package devapi
