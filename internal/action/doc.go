// Package action runs user work behind a busy indicator and converts its
// failures into toasts and field messages.
//
// Errors are classified by the status they carry (see StatusCoder):
//
//	400        bad request, field messages taken from the body
//	401, 403   forbidden
//	404        not found
//	408, 502,
//	504        timeout
//	other      internal server error
//
// ProcessSubmit validates a form first and never calls the action when
// local validation fails. A 400 whose body decodes as
//
//	{"errors": {"<field>": ["message", ...]}}
//
// is routed through validation.Controller, so fields the form does not
// know end up in the global summary.
package action
