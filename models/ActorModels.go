package models

// ActorKind discriminates how a change is attributed
type ActorKind int

const (
	// ActorKnown is a resolved application user.
	ActorKnown ActorKind = iota
	// ActorSystem is the designated system identity, used when an
	// automated step cannot be tied to a person.
	ActorSystem
	// ActorAnonymous leaves the change unattributed.
	ActorAnonymous
)

// Actor identifies who a state change is attributed to. It is resolved
// once at the entry of a workflow and threaded through, so downstream
// code never does its own identity lookups.
type Actor struct {
	Kind   ActorKind
	UserID uint
	Label  string
}

// KnownActor attributes changes to a resolved user.
func KnownActor(u *User) Actor {
	label := u.Email
	if u.FirstName != "" || u.LastName != "" {
		label = u.FirstName + " " + u.LastName
	}
	return Actor{Kind: ActorKnown, UserID: u.ID, Label: label}
}

// SystemActor attributes changes to the designated system identity.
func SystemActor(u *User) Actor {
	return Actor{Kind: ActorSystem, UserID: u.ID, Label: "system"}
}

// AnonymousActor leaves changes unattributed rather than failing them.
func AnonymousActor() Actor {
	return Actor{Kind: ActorAnonymous, Label: "anonymous"}
}

// AttributedUserID returns the user id to write into audit columns, or
// nil for anonymous changes.
func (a Actor) AttributedUserID() *uint {
	if a.Kind == ActorAnonymous || a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
