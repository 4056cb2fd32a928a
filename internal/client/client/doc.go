// Package client contains the client-side building blocks for talking to the
// user-management backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Login,
//     ListUsers, GetUser, SearchUsers, GetUsersByDepartment, CreateUser,
//     UpdateUser and DeleteUser.
//  2. A concrete REST implementation (see HTTPClient) that sends JSON over
//     net/http and injects the bearer token through a RoundTripper.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// A non-2xx answer is a *ServiceError carrying the status and the backend's
// message; it matches ErrUnauthorized (401, 403), ErrNotFound (404) and
// ErrConflict (409) with errors.Is. A request that could not be sent or whose
// response could not be read is a *TransportError, which matches
// ErrUnavailable.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every operation takes a
// context.Context and honors its cancellation.
package client
