package flood

import "errors"

var (
	// ErrNoFloodTerrain means the catalog has no terrain a flood could write,
	// so no flood kind can ever spawn.
	ErrNoFloodTerrain = errors.New("flood: catalog has no floodable terrain")
	// ErrKindUnavailable is returned when spawning a kind that failed startup
	// validation or is unknown.
	ErrKindUnavailable = errors.New("flood: kind unavailable")
	// ErrUnknownFlood is returned for handles that do not name a live flood.
	ErrUnknownFlood = errors.New("flood: unknown flood")
	// ErrCorruptState reports persisted state that cannot be restored.
	ErrCorruptState = errors.New("flood: corrupt state")
	// ErrMissingDependency reports a Deps value without a required collaborator.
	ErrMissingDependency = errors.New("flood: missing dependency")
)
