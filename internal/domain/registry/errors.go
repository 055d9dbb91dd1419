package registry

import "errors"

// Sentinel kinds for registry errors. Match them with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid registry seed")
)

// Error is a registry failure of a given kind carrying the human-readable
// detail shown to API clients.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

// Domain errors returned by Signup, Unregister and Get.
var (
	ErrActivityNotFound = &Error{Kind: ErrNotFound, Detail: "Activity not found"}
	ErrAlreadySignedUp  = &Error{Kind: ErrConflict, Detail: "Student already signed up"}
	ErrNotSignedUp      = &Error{Kind: ErrConflict, Detail: "Student not signed up"}
)

// Detail extracts the client-facing text from err, or "" if err is not a registry error.
func Detail(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Detail
	}
	return ""
}
