package types

// JSON is a form's values keyed by field name, as persisted in drafts.
type JSON = map[string]any
