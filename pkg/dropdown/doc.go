// Package dropdown keeps the ephemeral UI state of a choice field's option
// picker (open flag, search text and free-text buffer) and closes the picker
// when a pointer event lands outside its region.
//
// Outside-pointer detection is a subscription on an EventSource that is
// acquired when the picker opens and released when it closes or the owning
// form unmounts, so a closed picker never holds a listener.
package dropdown
