// Package transport is the HTTP adapter behind the action controller and
// remote combobox search.
//
// Failed requests are *Error values. They implement StatusCode and JSON,
// which is all the action controller needs to classify a failure and
// read field messages from a 400 body. Network failures and 5xx
// responses are retried with exponential backoff; 4xx responses never are.
package transport
