// SPDX-License-Identifier: EPL-2.0

package fusion

import "fmt"

// State is the lifecycle stage of an object.
type State int32

const (
	StateInit State = iota
	StateActive
	StateZombie
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateActive:
		return "active"
	case StateZombie:
		return "zombie"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}
