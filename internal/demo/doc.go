// Package demo is the interactive signup form shipped with fieldkit-demo.
//
// It exercises every fieldkit component against a real HTTP round trip:
// text fields with constraints, a city combobox searching a backend, a
// multiple fruit combobox filtering locally, a native-style select, a
// pager with a jump menu, and a submit run through the action controller.
//
// # Screens
//
//   - Form: the signup form itself
//   - Success: the accepted signup and its server id
//   - Failure: a server or network error no field message explains
//
// Validation failures never leave the form. Server field errors are
// attached to their fields and summarized above them; a toast names the
// failure category.
//
// # Backend
//
// Backend stands in for a form API. Run it in-process with Start, or
// point the demo at any server answering the same two routes:
//
//	GET  /api/cities?q=lis   {"items": [{"value": "lis", "text": "Lisbon"}]}
//	POST /api/signup         201 {"id": 1} or 400 {"errors": {"email": "..."}}
//
// # Usage Example
//
//	srv := demo.NewBackend().Start()
//	defer srv.Close()
//
//	app := demo.NewAppModel(demo.Options{Endpoint: srv.URL})
//	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package demo
