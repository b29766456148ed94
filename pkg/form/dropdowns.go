package form

import (
	"github.com/goliatone/go-applyform/pkg/dropdown"
	"github.com/goliatone/go-applyform/pkg/model"
)

// Dropdown returns the picker state of a choice field.
func (c *Controller) Dropdown(name string) (dropdown.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.fieldOfKind(name, model.FieldKind.Choice); err != nil {
		return dropdown.State{}, err
	}
	return c.dropdowns[name].State(), nil
}

// OpenDropdown shows a picker and starts listening for outside pointers.
func (c *Controller) OpenDropdown(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.mutableField(name, model.FieldKind.Choice); err != nil {
		return err
	}
	c.dropdowns[name].Open()
	return nil
}

// CloseDropdown hides a picker.
func (c *Controller) CloseDropdown(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.fieldOfKind(name, model.FieldKind.Choice); err != nil {
		return err
	}
	c.dropdowns[name].Close()
	return nil
}

// ToggleDropdown flips a picker.
func (c *Controller) ToggleDropdown(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.fieldOfKind(name, model.FieldKind.Choice); err != nil {
		return err
	}
	dd := c.dropdowns[name]
	if dd.IsOpen() {
		dd.Close()
		return nil
	}
	if c.closed {
		return ErrClosed
	}
	if c.frozen {
		return ErrFrozen
	}
	dd.Open()
	return nil
}

// PointerDown reports a pointer press on target to the controller's event
// source. Pickers whose region does not contain target close. It is a no-op
// when the configured source cannot dispatch.
func (c *Controller) PointerDown(target string) {
	if d, ok := c.events.(interface{ Dispatch(dropdown.PointerEvent) }); ok {
		d.Dispatch(dropdown.PointerEvent{Target: target})
	}
}
