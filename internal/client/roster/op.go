package roster

import (
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

type OpKind int

const (
	OpCreate OpKind = iota
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

type OpState int

const (
	Pending OpState = iota
	Confirmed
	Failed
)

func (s OpState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Op is an optimistic mutation waiting for the backend.
type Op struct {
	ID      string
	Kind    OpKind
	State   OpState
	UserID  int64
	Started time.Time
}

// pendingOp keeps what is needed to undo an Op.
type pendingOp struct {
	op     Op
	before *models.User
	index  int
	seq    uint64
}
