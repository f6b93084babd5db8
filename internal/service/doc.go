// Package service contains the application use cases of the bucket list API.
// It coordinates the repositories defined in internal/store and the domain
// entities to register and authenticate users and to manage bucket lists and
// their items on behalf of their owner.
//
// Key rules enforced here:
//
//   - Every bucket list operation is scoped to the calling user. Reading or
//     changing another user's list yields ErrNotOwner.
//   - Item operations verify the parent list's owner first and require the
//     item to belong to that list.
//   - Mutations run inside store.RunInTransaction, so any failure rolls the
//     whole unit back.
//
// The service layer depends on domain entities and repository interfaces,
// never on a specific database implementation.
package service
