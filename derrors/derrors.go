// Package derrors defines the runtime's error taxonomy (spec §7). Every
// constructor returns a *cuserr.CustomError so callers can categorize a
// failure by Code instead of parsing a message string — the same shape
// itsatony-go-prompty uses for its own parse/exec/validation errors
// (prompty.errors.go).
package derrors

import (
	"github.com/itsatony/go-cuserr"
)

// Error codes, one per taxonomy entry in spec §7.
const (
	CodePureMutation    = "DECLARUI_PURE_MUTATION"
	CodeNameCollision   = "DECLARUI_NAME_COLLISION"
	CodeSyntaxShape     = "DECLARUI_SYNTAX_SHAPE"
	CodeInitShape       = "DECLARUI_INIT_SHAPE"
	CodeDuplicateMarker = "DECLARUI_DUPLICATE_MARKER"
	CodeTemplateMissing = "DECLARUI_TEMPLATE_NOT_FOUND"
	CodeStructural      = "DECLARUI_STRUCTURAL_VIOLATION"
)

// Message constants — no magic strings at call sites.
const (
	msgPureMutation    = "write attempted on a pure-mode handle"
	msgNameCollision   = "case-insensitive name collision in scope"
	msgSyntaxShape     = "malformed reserved-attribute syntax"
	msgInitShape       = "init expression violates shape constraints"
	msgDuplicateMarker = "duplicate iteration marker"
	msgTemplateMissing = "use-site refers to an undefined component"
	msgStructural      = "structural violation of the declarative surface"
)

// Metadata keys used by WithMetadata across the constructors below.
const (
	MetaHandle     = "handle"
	MetaName       = "name"
	MetaSID        = "sid"
	MetaAttribute  = "attribute"
	MetaExpr       = "expression"
	MetaMarker     = "marker"
	MetaComponent  = "component"
	MetaReason     = "reason"
)

// PureMutation reports a write attempted through a pure-mode handle proxy.
func PureMutation(handlePath string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, CodePureMutation, msgPureMutation).
		WithMetadata(MetaHandle, handlePath)
}

// NameCollision reports a case-insensitive collision among value bindings,
// handle aliases, or evaluation-environment handle parameters.
func NameCollision(name, reason string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, CodeNameCollision, msgNameCollision).
		WithMetadata(MetaName, name).
		WithMetadata(MetaReason, reason)
}

// SyntaxShape reports malformed def/each/reserved-attribute syntax.
func SyntaxShape(attribute, reason string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, CodeSyntaxShape, msgSyntaxShape).
		WithMetadata(MetaAttribute, attribute).
		WithMetadata(MetaReason, reason)
}

// InitShape reports an init expression that is not a plain object, that is
// declared twice, or that appears on a bound form.
func InitShape(sid, reason string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, CodeInitShape, msgInitShape).
		WithMetadata(MetaSID, sid).
		WithMetadata(MetaReason, reason)
}

// DuplicateMarker reports two rows of one iteration expansion producing
// equal stringified markers.
func DuplicateMarker(marker string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, CodeDuplicateMarker, msgDuplicateMarker).
		WithMetadata(MetaMarker, marker)
}

// TemplateNotFound reports a use-site naming an unregistered component.
func TemplateNotFound(component string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryNotFound, CodeTemplateMissing, msgTemplateMissing).
		WithMetadata(MetaComponent, component)
}

// Structural reports a violation of document-level structural constraints
// (multiple global-init tags, a global-init after a declarative root, ...).
func Structural(reason string) error {
	return cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, CodeStructural, msgStructural).
		WithMetadata(MetaReason, reason)
}

// Wrap adapts an arbitrary evaluation-time failure (a compile error from
// exprlang, a panic recovered by the render error boundary) into the same
// taxonomy under a caller-chosen code, preserving the cause.
func Wrap(cause error, code, msg string) error {
	err := cuserr.NewCustomErrorWithCategory(cuserr.ErrorCategoryValidation, code, msg)
	err.Wrapped = cause
	return err
}
