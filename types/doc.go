// Package types holds the loosely typed values that move between forms,
// drafts and storage.
//
//	values, _ := types.ToObject(form) // struct to JSON object
//	name := types.ToString(values["fullName"])
package types
