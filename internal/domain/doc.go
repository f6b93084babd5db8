// Package domain contains the core business entities of the bucket list
// service (users, bucket lists and their items) together with their
// validation rules, independent of storage or transport.
package domain
