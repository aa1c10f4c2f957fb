// Package validation applies custom validity messages to forms and
// reports them.
//
// A Form is anything that lists its Inputs in document order. Field
// lookup goes through a Locator and composite widgets are looked through
// with an UnwrapFunc, so the controller runs against any host: the
// terminal form in internal/form, or a fake in tests.
//
// Messages whose field is missing are not dropped. They are prefixed with
// a label derived from the field name and sent to a hidden global input,
// created once per form, whose message ends up in the form summary:
//
//	c := validation.NewController()
//	c.SetCustomValidity(form, map[string][]string{
//	    "email":     {"Invalid"},
//	    "birthDate": {"Too young"}, // no such field
//	})
//	c.ReportValidity(form) // false; summary shows "Birth Date: Too young"
package validation
