package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a document does not exist in the user's scope.
var ErrNotFound = errors.New("document not found")

// Operation names reported in OpError.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpWrite  = "write"
	OpGet    = "get"
	OpList   = "list"
)

// OpError describes a failed store operation against a document path such as
// users/<uid>/activities/<id>.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op, path string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	return &OpError{Op: op, Path: path, Err: err}
}

func userPath(userID string) string {
	return "users/" + userID
}

func collectionPath(userID, collection string) string {
	return fmt.Sprintf("users/%s/%s", userID, collection)
}

func documentPath(userID, collection, id string) string {
	return fmt.Sprintf("users/%s/%s/%s", userID, collection, id)
}

const (
	collActivities = "activities"
	collCategories = "categories"
	collGoals      = "weeklyGoals"
	collEnergy     = "energyLevels"
)
