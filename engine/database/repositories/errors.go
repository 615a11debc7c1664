package repositories

import "fmt"

// RepositoryError wraps a storage failure with operation context.
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity lookup miss where lazy creation does not
// apply.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ConflictError represents a uniqueness violation.
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", ce.Entity, ce.Field, ce.Value)
}

// InsufficientFundsError is returned by a debit that would take a wallet
// negative. The wallet row is left untouched.
type InsufficientFundsError struct {
	OwnerID   string
	Balance   int64
	Requested int64
}

func (ife *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: balance %d, requested %d", ife.OwnerID, ife.Balance, ife.Requested)
}

// NotCompletedError is returned by a claim on a quest that is not yet complete.
type NotCompletedError struct {
	UserID  string
	QuestID string
}

func (nce *NotCompletedError) Error() string {
	return fmt.Sprintf("quest %s is not completed for user %s", nce.QuestID, nce.UserID)
}

// AlreadyClaimedError is returned by a second claim on the same quest.
type AlreadyClaimedError struct {
	UserID  string
	QuestID string
}

func (ace *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("quest %s already claimed by user %s", ace.QuestID, ace.UserID)
}

// InvalidRangeError represents a malformed amount or bound.
type InvalidRangeError struct {
	Field string
	Value interface{}
}

func (ire *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", ire.Field, ire.Value)
}

// StaleWriteError is returned by a guarded update whose caller computed from
// a snapshot the store has since moved past. The caller should re-read and
// retry.
type StaleWriteError struct {
	Entity string
	ID     interface{}
}

func (swe *StaleWriteError) Error() string {
	return fmt.Sprintf("stale write to %s %v", swe.Entity, swe.ID)
}

// StorageConflictError is returned when an optimistic retry loop gives up.
type StorageConflictError struct {
	Operation string
	Attempts  int
}

func (sce *StorageConflictError) Error() string {
	return fmt.Sprintf("storage conflict during %s after %d attempts", sce.Operation, sce.Attempts)
}
