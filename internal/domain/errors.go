package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for domain operations
var (
	// ErrConfig is returned for unknown networks or invalid configuration
	ErrConfig = errors.New("configuration error")

	// ErrFile is returned when a registry or artifact cannot be read or written
	ErrFile = errors.New("file error")

	// ErrParse is returned when a registry file is not valid JSON of the expected shape
	ErrParse = errors.New("parse error")

	// ErrNotFound is returned when a registry lookup has no recorded value
	ErrNotFound = errors.New("not found")

	// ErrMissingDependency is returned when a cross-referenced registry entry is absent
	ErrMissingDependency = errors.New("missing dependency")

	// ErrTimeout is returned when a transaction does not reach a terminal status in time
	ErrTimeout = errors.New("timeout")

	// ErrInstall is returned when uploading contract code fails
	ErrInstall = errors.New("install failed")

	// ErrDeploy is returned when creating a contract instance fails
	ErrDeploy = errors.New("deploy failed")

	// ErrInvocation is returned when a contract call fails or reverts
	ErrInvocation = errors.New("invocation failed")

	// ErrTransient marks network-level failures that are safe to retry
	ErrTransient = errors.New("transient network error")
)

// NotFoundError reports a registry lookup on an unset entry.
type NotFoundError struct {
	Network string
	Name    string
	Field   string // "contractId", "wasmHash" or "asset"
}

func (e NotFoundError) Error() string {
	if e.Network == "" {
		return fmt.Sprintf("no %s recorded for '%s'", e.Field, e.Name)
	}
	return fmt.Sprintf("no %s recorded for '%s' on %s", e.Field, e.Name, e.Network)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MissingDependencyError names the external registry entry the resolver could not find.
type MissingDependencyError struct {
	Network  string
	Registry string
	Entry    string
}

func (e MissingDependencyError) Error() string {
	return fmt.Sprintf("%s registry has no '%s' entry on %s", e.Registry, e.Entry, e.Network)
}

func (e MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// TimeoutError reports a polling loop that exceeded its wall-clock bound.
type TimeoutError struct {
	Hash   string
	Waited time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not final after %s", e.Hash, e.Waited)
}

func (e TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// RevertError carries the remote diagnostics of a rejected or failed transaction.
// It is never retried.
type RevertError struct {
	Hash        string
	Status      string
	ResultXDR   string
	Diagnostics []string
}

func (e RevertError) Error() string {
	msg := fmt.Sprintf("transaction %s", strings.ToLower(e.Status))
	if e.Hash != "" {
		msg = fmt.Sprintf("transaction %s %s", e.Hash, strings.ToLower(e.Status))
	}
	if len(e.Diagnostics) > 0 {
		msg += fmt.Sprintf(" (%d diagnostic events)", len(e.Diagnostics))
	}
	return msg
}

// Operation identifies a lifecycle step.
type Operation string

const (
	OpInstall    Operation = "install"
	OpDeploy     Operation = "deploy"
	OpInitialize Operation = "initialize"
	OpInvoke     Operation = "invoke"
)

// OperationError wraps the failure of a lifecycle step after retries or on an
// unretryable revert. It matches ErrInstall, ErrDeploy or ErrInvocation
// depending on the operation, and unwraps to the underlying cause.
type OperationError struct {
	Op       Operation
	Name     string
	Attempts int
	Err      error
}

func (e *OperationError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s %s failed after %d attempts: %v", e.Op, e.Name, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Name, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	switch e.Op {
	case OpInstall:
		return target == ErrInstall
	case OpDeploy:
		return target == ErrDeploy
	case OpInitialize, OpInvoke:
		return target == ErrInvocation
	}
	return false
}

// Exit codes returned by the CLI for each error kind
const (
	ExitOK                = 0
	ExitUnknown           = 1
	ExitConfig            = 2
	ExitFile              = 3
	ExitParse             = 4
	ExitNotFound          = 5
	ExitMissingDependency = 6
	ExitTimeout           = 7
	ExitInstall           = 8
	ExitDeploy            = 9
	ExitInvocation        = 10
)

// ExitCode maps an error to a process exit code. The most specific cause wins:
// a timeout inside a failed deploy exits with ExitTimeout.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrParse):
		return ExitParse
	case errors.Is(err, ErrFile):
		return ExitFile
	case errors.Is(err, ErrMissingDependency):
		return ExitMissingDependency
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrTimeout):
		return ExitTimeout
	case errors.Is(err, ErrInstall):
		return ExitInstall
	case errors.Is(err, ErrDeploy):
		return ExitDeploy
	case errors.Is(err, ErrInvocation):
		return ExitInvocation
	default:
		return ExitUnknown
	}
}
