package beans

import (
	"errors"
	"fmt"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeInvalidFactory indicates a catalog factory is nil or unusable
	CodeInvalidFactory = "INVALID_FACTORY"

	// CodeAlreadyExists indicates a type id is already present in the catalog
	CodeAlreadyExists = "ALREADY_EXISTS"

	// CodeEmptyScanPath indicates the configuration carries no scan path
	CodeEmptyScanPath = "EMPTY_SCAN_PATH"

	// CodeScanRootNotFound indicates no catalog type lives under the scan root
	CodeScanRootNotFound = "SCAN_ROOT_NOT_FOUND"

	// CodeInvalidConfig indicates an unreadable or malformed configuration file
	CodeInvalidConfig = "INVALID_CONFIG"

	// CodeInvalidDefinition indicates a bean definition without id or type
	CodeInvalidDefinition = "INVALID_DEFINITION"

	// CodeTypeNotFound indicates a bean definition references an unknown type id
	CodeTypeNotFound = "TYPE_NOT_FOUND"

	// CodeInvalidMetadata indicates malformed marker or struct tag metadata
	CodeInvalidMetadata = "INVALID_METADATA"

	// CodeConstructionFailed indicates a factory failed, panicked or returned nil
	CodeConstructionFailed = "CONSTRUCTION_FAILED"

	// CodeWiringFailed indicates an explicit property could not be injected
	CodeWiringFailed = "WIRING_FAILED"

	// CodeTypeMismatch indicates a bean is not assignable to the requested type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeProxyUnavailable indicates a transactional bean cannot be wrapped
	CodeProxyUnavailable = "PROXY_UNAVAILABLE"

	// CodeBeanNotFound indicates Get was called with an unregistered name
	CodeBeanNotFound = "BEAN_NOT_FOUND"

	// CodeInvalidArgument indicates Get was called with an empty name
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeNotBootstrapped indicates the container has no completed bootstrap
	CodeNotBootstrapped = "NOT_BOOTSTRAPPED"

	// CodeAlreadyBootstrapped indicates Bootstrap was called twice
	CodeAlreadyBootstrapped = "ALREADY_BOOTSTRAPPED"

	// CodeTransactionFailed indicates begin, commit or rollback failed around a call
	CodeTransactionFailed = "TRANSACTION_FAILED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================
//
// go-utils errors compare by code, so errors.Is(err, ErrBeanNotFound) matches
// any error built with CodeBeanNotFound regardless of message or context.

var (
	ErrInvalidFactory      = errs.NewError(CodeInvalidFactory, "factory cannot be nil", nil)
	ErrAlreadyExists       = errs.NewError(CodeAlreadyExists, "already exists", nil)
	ErrEmptyScanPath       = errs.NewError(CodeEmptyScanPath, "component scan path is empty", nil)
	ErrScanRootNotFound    = errs.NewError(CodeScanRootNotFound, "scan root not found", nil)
	ErrInvalidConfig       = errs.NewError(CodeInvalidConfig, "invalid configuration", nil)
	ErrInvalidDefinition   = errs.NewError(CodeInvalidDefinition, "invalid bean definition", nil)
	ErrTypeNotFound        = errs.NewError(CodeTypeNotFound, "type not found", nil)
	ErrInvalidMetadata     = errs.NewError(CodeInvalidMetadata, "invalid metadata", nil)
	ErrConstructionFailed  = errs.NewError(CodeConstructionFailed, "construction failed", nil)
	ErrWiringFailed        = errs.NewError(CodeWiringFailed, "wiring failed", nil)
	ErrTypeMismatch        = errs.NewError(CodeTypeMismatch, "type mismatch", nil)
	ErrProxyUnavailable    = errs.NewError(CodeProxyUnavailable, "proxy unavailable", nil)
	ErrBeanNotFound        = errs.NewError(CodeBeanNotFound, "bean not found", nil)
	ErrInvalidArgument     = errs.NewError(CodeInvalidArgument, "invalid argument", nil)
	ErrNotBootstrapped     = errs.NewError(CodeNotBootstrapped, "container not bootstrapped", nil)
	ErrAlreadyBootstrapped = errs.NewError(CodeAlreadyBootstrapped, "container already bootstrapped", nil)
	ErrTransactionFailed   = errs.NewError(CodeTransactionFailed, "transaction failed", nil)
)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// errTypeAlreadyExists creates an error for a duplicate catalog registration.
func errTypeAlreadyExists(typeID string) *errs.Error {
	return errs.NewError(
		CodeAlreadyExists,
		fmt.Sprintf("type '%s' already registered", typeID),
		nil,
	).WithContext("type", typeID).(*errs.Error)
}

// errScanRootNotFound creates an error for a scan root with no catalog types below it.
func errScanRootNotFound(root string) *errs.Error {
	return errs.NewError(
		CodeScanRootNotFound,
		fmt.Sprintf("no component types under scan root '%s'", root),
		nil,
	).WithContext("scan_root", root).(*errs.Error)
}

// errInvalidDefinition creates an error for an incomplete bean definition.
func errInvalidDefinition(index int, reason string) *errs.Error {
	return errs.NewError(
		CodeInvalidDefinition,
		fmt.Sprintf("bean definition #%d: %s", index, reason),
		nil,
	).WithContext("index", index).(*errs.Error)
}

// errTypeNotFound creates an error for a bean definition whose type is not in the catalog.
func errTypeNotFound(beanID, typeID string) *errs.Error {
	return errs.NewError(
		CodeTypeNotFound,
		fmt.Sprintf("bean '%s' references unknown type '%s'", beanID, typeID),
		nil,
	).WithContext("bean", beanID).
		WithContext("type", typeID).(*errs.Error)
}

// errInvalidMetadata creates an error for malformed markers or tags on a type.
func errInvalidMetadata(typeID, reason string) *errs.Error {
	return errs.NewError(
		CodeInvalidMetadata,
		fmt.Sprintf("type '%s': %s", typeID, reason),
		nil,
	).WithContext("type", typeID).(*errs.Error)
}

// errConstructionFailed creates an error for a failed factory call.
func errConstructionFailed(name string, cause error) *errs.Error {
	return errs.NewError(
		CodeConstructionFailed,
		fmt.Sprintf("bean '%s' construction failed", name),
		cause,
	).WithContext("bean", name).(*errs.Error)
}

// errWiringFailed creates an error for a failed explicit property injection.
func errWiringFailed(name, property, reason string, cause error) *errs.Error {
	return errs.NewError(
		CodeWiringFailed,
		fmt.Sprintf("bean '%s' property '%s': %s", name, property, reason),
		cause,
	).WithContext("bean", name).
		WithContext("property", property).(*errs.Error)
}

// errTypeMismatch creates an error for a bean not assignable to the requested type.
func errTypeMismatch(name string, actual any, want string) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("bean '%s' type mismatch: got %T, want %s", name, actual, want),
		nil,
	).WithContext("bean", name).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// errProxyUnavailable creates an error for a transactional bean that cannot be wrapped.
func errProxyUnavailable(name, reason string) *errs.Error {
	return errs.NewError(
		CodeProxyUnavailable,
		fmt.Sprintf("bean '%s': %s", name, reason),
		nil,
	).WithContext("bean", name).(*errs.Error)
}

// errBeanNotFound creates an error for an unregistered bean name.
func errBeanNotFound(name string) *errs.Error {
	return errs.NewError(
		CodeBeanNotFound,
		fmt.Sprintf("bean '%s' not found", name),
		nil,
	).WithContext("bean", name).(*errs.Error)
}

// errTransactionFailed creates an error for a failed transaction step around a call.
func errTransactionFailed(bean, method, step string, cause error) *errs.Error {
	return errs.NewError(
		CodeTransactionFailed,
		fmt.Sprintf("%s.%s: transaction %s failed", bean, method, step),
		cause,
	).WithContext("bean", bean).
		WithContext("method", method).
		WithContext("step", step).(*errs.Error)
}

// =============================================================================
// TAXONOMY
// =============================================================================

// IsBootstrapFatal reports whether err aborted a bootstrap outside wiring:
// configuration, scan, type resolution, metadata, construction or proxy selection.
func IsBootstrapFatal(err error) bool {
	return errors.Is(err, ErrEmptyScanPath) ||
		errors.Is(err, ErrScanRootNotFound) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrTypeNotFound) ||
		errors.Is(err, ErrInvalidMetadata) ||
		errors.Is(err, ErrConstructionFailed) ||
		errors.Is(err, ErrProxyUnavailable)
}

// IsWiringFatal reports whether err is an explicit-property or field wiring failure.
func IsWiringFatal(err error) bool {
	return errors.Is(err, ErrWiringFailed) || errors.Is(err, ErrTypeMismatch)
}

// IsNotFound reports whether err is a retrieval miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBeanNotFound)
}

// IsInvalidArgument reports whether err is a retrieval with an empty name.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsTransactionFailure reports whether err came from begin, commit or rollback.
// An error returned by the wrapped method itself, after a clean rollback, is
// passed through untouched and does not match.
func IsTransactionFailure(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}
