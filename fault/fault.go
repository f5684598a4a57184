// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
// transient errors may be retried with backoff
// rejected errors require pool reconciliation before a rebuild
// timeout errors are ambiguous - the operation may still complete
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError
type RejectedError GenericError
type TimeoutError GenericError
type TransientError GenericError

// common errors - keep in alphabetic order
var (
	ErrAddressIsNil               = InvalidError("address is nil")
	ErrAlreadyInitialised         = ExistsError("already initialised")
	ErrChecksumMismatch           = ProcessError("checksum mismatch")
	ErrConfirmationTimeout        = TimeoutError("confirmation timed out")
	ErrDigestLength               = LengthError("digest length is invalid")
	ErrInstanceIdTooLong          = LengthError("instance id too long")
	ErrInsufficientValue          = ProcessError("funding unit value is insufficient")
	ErrInvalidAuthorizationScript = InvalidError("invalid authorization script")
	ErrInvalidChain               = InvalidError("invalid chain")
	ErrInvalidDigestCharacter     = InvalidError("digest is not lowercase hex")
	ErrInvalidLoggerChannel       = InvalidError("invalid logger channel")
	ErrInvalidNodeURL             = InvalidError("invalid node url")
	ErrInvalidPrivateKey          = InvalidError("invalid private key")
	ErrInvalidStructPointer       = InvalidError("invalid struct pointer")
	ErrNoConnectionsAvailable     = ProcessError("no connections available")
	ErrNoFundsAvailable           = ProcessError("no funds available")
	ErrNotAnchorRecordPack        = RecordError("not an anchor record pack")
	ErrNotInitialised             = NotFoundError("not initialised")
	ErrRecordFieldMissing         = RecordError("record field missing")
	ErrRequiredAgentKey           = InvalidError("agent key is required")
	ErrRequiredAuthorizationHex   = InvalidError("authorization script is required")
	ErrRequiredInstanceId         = InvalidError("instance id is required")
	ErrRequiredNodeURL            = InvalidError("node url is required")
	ErrRequiredSchemaVersion      = InvalidError("schema version is required")
	ErrRequiredSubjectId          = InvalidError("subject id is required")
	ErrSchemaVersionTooLong       = LengthError("schema version too long")
	ErrSubjectIdTooLong           = LengthError("subject id too long")
	ErrSubmissionFailed           = TransientError("transaction submission failed")
	ErrTransactionRejected        = RejectedError("transaction rejected by ledger")
	ErrUnitAlreadyAllocated       = ProcessError("funding unit is already allocated")
	ErrUnitNotAllocated           = ProcessError("funding unit is not allocated")
	ErrUnitNotFound               = NotFoundError("funding unit not found")
	ErrWrongNamespaceTag          = RecordError("wrong namespace tag")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RecordError) Error() string    { return string(e) }
func (e RejectedError) Error() string  { return string(e) }
func (e TimeoutError) Error() string   { return string(e) }
func (e TransientError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool    { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool    { _, ok := e.(RecordError); return ok }
func IsErrRejected(e error) bool  { _, ok := e.(RejectedError); return ok }
func IsErrTimeout(e error) bool   { _, ok := e.(TimeoutError); return ok }
func IsErrTransient(e error) bool { _, ok := e.(TransientError); return ok }
