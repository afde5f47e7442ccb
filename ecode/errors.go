package ecode

import "fmt"

const (
	emptyMsg    = "empty"
	requiredMsg = "required"
	invalidMsg  = "invalid"
	failedMsg   = "failed"
	existMsg    = "already exists"
	notExistMsg = "does not exist"
	expiredMsg  = "expired"
)

func subject(msg string, k []string) string {
	if len(k) > 0 && k[0] != "" {
		return fmt.Sprintf("%s %s", k[0], msg)
	}
	return msg
}

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string { return subject(emptyMsg, k) }

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string { return subject(requiredMsg, k) }

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string { return subject(invalidMsg, k) }

// Failed returns failed message
func Failed(k ...string) string { return subject(failedMsg, k) }

// AlreadyExist returns already exist message
func AlreadyExist(k ...string) string { return subject(existMsg, k) }

// NotExist returns not exist message
func NotExist(k ...string) string { return subject(notExistMsg, k) }

// Expired returns expired message
func Expired(k ...string) string { return subject(expiredMsg, k) }
