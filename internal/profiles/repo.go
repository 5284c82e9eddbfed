package profiles

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "profile not found" }

type Repo interface {
	// Put replaces the stored profile for the user. Concurrent writers race
	// on whole-row replacement; the last commit wins.
	Put(ctx context.Context, profile Profile) error
	Get(ctx context.Context, userID string) (Profile, error)
}
