package errs

import (
	"errors"
	"fmt"
)

// ErrLogged marks a failure whose message was already shown to the user.
var ErrLogged = errors.New("already logged")

type Code string

const (
	UnknownCategory    Code = "UNKNOWN_CATEGORY"
	MissingCategory    Code = "MISSING_CATEGORY"
	PopulateInProgress Code = "POPULATE_IN_PROGRESS"
	NoSnapshot         Code = "NO_SNAPSHOT"
	MissingLabel       Code = "MISSING_LABEL"
	MissingQuery       Code = "MISSING_QUERY"
	MissingText        Code = "MISSING_TEXT"
	MissingTarget      Code = "MISSING_TARGET_LANGUAGE"
)

var messages = map[Code]string{
	UnknownCategory: `Unknown category %[1]q

Valid categories:
  %[2]s

Example:
  gompa cache show monasteries`,

	MissingCategory: `Missing category

Usage:
  gompa cache show <category> [--json]

Valid categories:
  %[1]s`,

	PopulateInProgress: `A cache populate is already running

Reason:
  Only one populate may run at a time; wait for it to finish and retry.`,

	NoSnapshot: `No offline snapshot available yet

Usage:
  gompa cache populate     # download every category for offline use`,

	MissingLabel: `Missing resource label

Usage:
  gompa download <label>

Example:
  gompa download potala-palace-guide`,

	MissingQuery: `Search query is required`,

	MissingText: `Text to translate is required`,

	MissingTarget: `Target language is required`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
