// Package record loads the JSON result record written by an MPC run.
//
// Fields are decoded lazily: Load only checks that the file holds a JSON
// object, and each accessor reports a *MissingFieldError or *ParseError
// naming its key. Results decodes every required key at once.
package record
