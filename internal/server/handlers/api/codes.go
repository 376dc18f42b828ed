package api

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error

	// Sync errors
	CodeSyncNotRegistered  = "E_SYNC_NOT_REGISTERED"  // the owner has not registered with the sync service.
	CodeSyncBadEvent       = "E_SYNC_BAD_EVENT"       // the change notification payload is malformed.
	CodeSyncRegisterFailed = "E_SYNC_REGISTER_FAILED" // a failure during user registration.
	CodeSyncResyncFailed   = "E_SYNC_RESYNC_FAILED"   // a failure while queueing a forced resync.
)
