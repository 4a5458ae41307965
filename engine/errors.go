package engine

import "fmt"

// UnknownSceneError is returned when a transition names a scene that was
// never defined.
type UnknownSceneError struct {
	Scene string
}

func (e *UnknownSceneError) Error() string {
	return fmt.Sprintf("unknown scene %q", e.Scene)
}
