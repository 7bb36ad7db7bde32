package interfaces

import "github.com/LEULEX-404/Health-Tracker/pkg/types"

// UserDirectory is the read-only user lookup consumed by the background
// loops and the notification path.
type UserDirectory interface {
	ListUserIDs() ([]string, error)
	GetUser(id string) (*types.User, error)
}
