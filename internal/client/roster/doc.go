// Package roster holds the local copy of the user directory.
//
// The Store is the only owner of the roster. Readers get copies; every change
// goes through one of its methods and is announced to subscribers with a fresh
// snapshot. Mutations come in two flavours:
//
//   - Apply* methods record a change the backend already confirmed.
//   - Begin* methods change the roster before the backend answers and return
//     a pending Op. The caller later settles it with Confirm, which adopts the
//     server's record, or Fail, which restores the record as it was before the
//     operation.
//
// Concurrent completions are applied in arrival order; the last one wins.
package roster
