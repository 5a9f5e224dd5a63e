// internal/notify/audience.go
package notify

import "context"

// Predicate selects the set of users a record fans out to. At most one
// equality clause and one containment clause; when both are set they AND
// together. All short-circuits every other clause.
type Predicate struct {
	All bool

	// Exact match on a user attribute, e.g. state == "CDMX".
	EqField string
	EqValue interface{}

	// Membership match on an array attribute, e.g. interestList
	// contains "music", or a reference list contains an event ref.
	ArrField string
	ArrValue interface{}
}

// Everyone matches all users.
func Everyone() Predicate {
	return Predicate{All: true}
}

// ByState matches users whose state attribute equals state.
func ByState(state string) Predicate {
	return Predicate{EqField: "state", EqValue: state}
}

// ByInterest matches users interested in interest AND located in state.
func ByInterest(interest, state string) Predicate {
	return Predicate{
		EqField:  "state",
		EqValue:  state,
		ArrField: "interestList",
		ArrValue: interest,
	}
}

// ByRelationship matches users whose reference list field contains ref.
// Used for "attendees of event E" and "users who favorited event E".
func ByRelationship(field string, ref interface{}) Predicate {
	return Predicate{ArrField: field, ArrValue: ref}
}

// AudienceSource produces one page of matching user IDs at a time. The
// cursor is the last user ID of the previous page ("" for the first page);
// results are strictly ordered so the enumeration is restartable and no
// user appears in two pages.
type AudienceSource interface {
	NextPage(ctx context.Context, p Predicate, cursor string, limit int) ([]string, error)
}
