package mention

import "github.com/aretw0/blend/pkg/domain"

// Controller tracks the highlighted suggestion of the active trigger.
// Navigation clamps at both ends; there is no wraparound.
type Controller struct {
	selected int
	count    int
	active   bool
}

// Selected returns the highlighted index.
func (c *Controller) Selected() int { return c.selected }

// Active reports whether a trigger is open.
func (c *Controller) Active() bool { return c.active }

// QueryChanged opens (or keeps open) the trigger with count suggestions and
// resets the selection.
func (c *Controller) QueryChanged(count int) {
	c.active = true
	c.count = max(count, 0)
	c.selected = 0
}

// Down moves the selection one entry down.
func (c *Controller) Down() {
	c.selected = max(min(c.selected+1, c.count-1), 0)
}

// Up moves the selection one entry up.
func (c *Controller) Up() {
	c.selected = max(c.selected-1, 0)
}

// Select highlights index i, clamped to the suggestion range.
func (c *Controller) Select(i int) {
	c.selected = max(min(i, c.count-1), 0)
}

// Commit returns the highlighted suggestion and closes the trigger.
// It reports false, leaving the trigger untouched, when nothing can be committed.
func (c *Controller) Commit(suggestions []domain.Identifier) (domain.Identifier, bool) {
	if !c.active || len(suggestions) == 0 {
		return domain.Identifier{}, false
	}
	idx := min(c.selected, len(suggestions)-1)
	c.Cancel()
	return suggestions[idx], true
}

// Cancel closes the trigger without committing.
func (c *Controller) Cancel() {
	c.active = false
	c.count = 0
	c.selected = 0
}
