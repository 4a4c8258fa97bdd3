package database

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound normalizes mongo.ErrNoDocuments so services never import the
// driver just to branch on a miss.
var ErrNotFound = errors.New("database: not found")

// NotFound maps a driver miss to ErrNotFound and passes other errors through.
func NotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// IsDup reports whether err is a unique-index violation, which controllers
// translate to a 409.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
