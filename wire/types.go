// Package wire is the seam between parsed statements and the DML executor
// that a PostgreSQL wire-protocol front-end would drive (spec.md §1, §6).
// It defines the request/response shapes the front-end exchanges with the
// core and a bounded-channel bridge to the executor; it implements no wire
// codec of its own — that front-end is an external collaborator, out of
// scope here (spec.md §1).
package wire

// DataTypeOid names the PostgreSQL type OID a result column is reported
// under in prepare's FieldDescription, mirroring the handful of scalar
// types RRDB's evaluator can produce (spec.md §4.4's reduce_type result
// set plus Null).
type DataTypeOid int

const (
	Unspecified DataTypeOid = 0
	Bool        DataTypeOid = 16
	Int8        DataTypeOid = 20
	Float8      DataTypeOid = 701
	Text        DataTypeOid = 25
)

// dataTypeOidByName maps eval.Type.String() (and the coarse column-type
// names the executor assigns) to the wire OID a prepare response reports.
var dataTypeOidByName = map[string]DataTypeOid{
	"BOOLEAN": Bool,
	"INTEGER": Int8,
	"FLOAT":   Float8,
	"STRING":  Text,
	"NULL":    Unspecified,
}

// OidForTypeName resolves a column's evaluated type name to its wire OID,
// defaulting to Unspecified for anything the evaluator didn't recognize —
// grounded on original_source/src/lib/executor/result.rs's
// `From<ExecuteColumnType> for DataTypeOid` mapping.
func OidForTypeName(name string) DataTypeOid {
	if oid, ok := dataTypeOidByName[name]; ok {
		return oid
	}
	return Unspecified
}

// FieldDescription names one result column and its wire type, returned by
// prepare (spec.md §6) — grounded on
// original_source/src/lib/pgwire/protocol/message/backend/types/field_description.rs.
type FieldDescription struct {
	Name     string
	DataType DataTypeOid
}

// SqlState is the subset of PostgreSQL SQLSTATE codes the core itself can
// produce (spec.md §6's "Error surface to the wire").
type SqlState string

const (
	SqlStateSyntaxError             SqlState = "42601"
	SqlStateFeatureNotSupported     SqlState = "0A000"
	SqlStateInvalidSQLStatementName SqlState = "26000"
	SqlStateInvalidCursorName       SqlState = "34000"
	SqlStateConnectionException     SqlState = "08000"
)

// Severity distinguishes a recoverable error response from one that must
// terminate the connection, matching ErrorResponse::error vs
// ErrorResponse::fatal in
// original_source/src/lib/pgwire/engine/rrdb.rs.
type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
)

// ErrorResponse is the shape every core error is mapped into before
// crossing the wire seam (spec.md §6).
type ErrorResponse struct {
	Severity Severity
	Code     SqlState
	Message  string
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// NewError builds a recoverable ErrorResponse.
func NewError(code SqlState, message string) *ErrorResponse {
	return &ErrorResponse{Severity: SeverityError, Code: code, Message: message}
}

// NewFatalError builds a connection-terminating ErrorResponse.
func NewFatalError(code SqlState, message string) *ErrorResponse {
	return &ErrorResponse{Severity: SeverityFatal, Code: code, Message: message}
}
