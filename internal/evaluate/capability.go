package evaluate

import (
	"os/user"
	"strings"
	"sync"

	"github.com/fma-project/fma-go/internal/selection"
)

var (
	currentUserOnce sync.Once
	currentUserName string
)

func currentUser() string {
	currentUserOnce.Do(func() {
		if u, err := user.Current(); err == nil {
			currentUserName = u.Username
		}
	})
	return currentUserName
}

// hasCapability evaluates one of the five named capabilities against a
// selected entry, per spec.md §4.3 step 9's capability→probe mapping.
func hasCapability(e *selection.Info, name string) bool {
	switch name {
	case "Owner":
		return e.Owner != "" && e.Owner == currentUser()
	case "Readable":
		return e.CanRead
	case "Writable":
		return e.CanWrite
	case "Executable":
		return e.CanExecute
	case "Local":
		return strings.EqualFold(e.Scheme, "file")
	default:
		return false
	}
}
