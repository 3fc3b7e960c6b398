package registry

import (
	"fmt"
	"strings"
)

// EmptyListing is what List returns when there are no tasks.
const EmptyListing = "Your task list is empty."

const (
	listingTitle = "TASK MANAGER - ALL TASKS"
	markDone     = "✔"
	markPending  = "○"
)

// Rule is the horizontal border used by every bordered block of output.
var Rule = strings.Repeat("-", 60)

// List renders the collection as a bordered listing, or EmptyListing.
func (r *Registry) List() string {
	if len(r.tasks) == 0 {
		return EmptyListing
	}

	var b strings.Builder
	b.WriteString("\n" + Rule + "\n")
	b.WriteString(listingTitle + "\n")
	b.WriteString(Rule + "\n")
	for _, t := range r.tasks {
		marker := markPending
		if t.IsDone {
			marker = markDone
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", t.TaskID, marker, t.Description)
		fmt.Fprintf(&b, "   Added on: %s\n", t.CreatedAt)
	}
	b.WriteString(Rule + "\n")
	return b.String()
}
