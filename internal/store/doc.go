// Package store defines the persistence contracts for users, bucket lists
// and items, the errors implementations translate database failures into,
// and the transaction helper services use to group mutations.
//
// Implementations live in internal/platform/sqlstore.
package store
