package response

import "reclamation-api/internal/domain"

// Business codes follow HTTP semantics directly.
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeTooManyReqs  = 429
	CodeServerError  = 500
)

var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeConflict:     "Conflict",
	CodeTooManyReqs:  "Too Many Requests",
	CodeServerError:  "Internal Server Error",
}

// CodeForKind maps a domain error kind to the wire code, so handlers never
// have to pattern-match on message text.
func CodeForKind(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return CodeBadRequest
	case domain.KindUnauthorized:
		return CodeUnauthorized
	case domain.KindForbidden:
		return CodeForbidden
	case domain.KindNotFound:
		return CodeNotFound
	case domain.KindConflict:
		return CodeConflict
	default:
		return CodeServerError
	}
}
