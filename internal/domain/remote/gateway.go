package remote

import (
	"context"
	"fmt"
)

// A CredentialProvider supplies the current remote credentials, or
// NoCredentials when the user is signed out.
type CredentialProvider interface {
	Current(ctx context.Context) (*Credentials, error)
}

// A Gateway issues authenticated requests against the remote system and
// returns parsed payloads. It classifies failures into the error types below
// but never retries; retry policy belongs to the caller (and in this design
// the next caller invocation is the retry mechanism).
type Gateway interface {
	// FetchUserCourses returns the courses the user is enrolled in.
	FetchUserCourses(ctx context.Context, creds Credentials) ([]RawCourse, error)

	// FetchCourseSections returns the sections and modules of one course,
	// without module contents.
	FetchCourseSections(ctx context.Context, creds Credentials, courseID int64) ([]RawSection, error)

	// FetchModuleContent returns the sections of a course narrowed to the
	// given module, with that module's contents included.
	FetchModuleContent(ctx context.Context, creds Credentials, courseID int64, moduleID int64) ([]RawSection, error)

	// FetchSiteInfo probes the session, returning who the token belongs to.
	FetchSiteInfo(ctx context.Context, creds Credentials) (*SiteInfo, error)

	// DownloadFile fetches the bytes of a file content entry by its remote
	// URL, authorising with the token in creds.
	DownloadFile(ctx context.Context, creds Credentials, fileURL string) ([]byte, error)
}

// <-- Domain Errors

// NoCredentials is returned when no user is signed in. Fatal to a refresh,
// non-fatal to a cached read.
type NoCredentials struct{}

func (e NoCredentials) Error() string {
	return "No remote credentials available; sign in first"
}

// Unauthorized is returned when the remote rejects the credentials.
type Unauthorized struct {
	Detail string
}

func (e Unauthorized) Error() string {
	return fmt.Sprintf("Remote rejected credentials: %s", e.Detail)
}

// ApplicationErr is a structured error envelope the remote returned inside
// an otherwise successful response.
type ApplicationErr struct {
	Code    string
	Message string
}

func (e ApplicationErr) Error() string {
	return fmt.Sprintf("Remote reported an application error [%s]: %s", e.Code, e.Message)
}

// TransportErr wraps a network-level failure or an unexpected HTTP status.
// Retryable by the next call.
type TransportErr struct {
	Cause error
}

func (e TransportErr) Error() string {
	return fmt.Sprintf("Transport failure talking to remote: %v", e.Cause)
}

func (e TransportErr) Unwrap() error {
	return e.Cause
}

// ParseErr means the payload did not have the expected shape; a contract
// drift worth logging loudly.
type ParseErr struct {
	Cause error
}

func (e ParseErr) Error() string {
	return fmt.Sprintf("Could not parse remote payload: %v", e.Cause)
}

func (e ParseErr) Unwrap() error {
	return e.Cause
}

//     Errors -->
