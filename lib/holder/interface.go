package holder

import (
	"fmt"

	"github.com/tickerhub/pricehold/lib/holder/util"
	"golang.org/x/exp/constraints"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IPriceHolder is the generic interface for a "latest value with blocking
// wait" store keyed by a ticker symbol. The value type is an opaque unsigned
// scalar; the holder never inspects it beyond copying it around.
//
// All write operations return only an error (nil on success), while read
// operations return the requested data along with an error (nil on success).
type IPriceHolder[T constraints.Unsigned] interface {
	// PutPrice inserts or updates the latest value for a symbol and delivers
	// the new value to every waiter currently registered for that symbol.
	// Delivery is attempted for all waiters even if one of them has been
	// abandoned; in that case a *Error with code RetCWaiterAbandoned is
	// returned, but the write and the remaining deliveries still take effect.
	PutPrice(symbol string, value T) (err error)
	// GetPrice returns the latest value for a symbol. The boolean return
	// value indicates whether a value for the symbol was found. It never
	// blocks and never mutates the holder.
	GetPrice(symbol string) (value T, loaded bool, err error)
	// NextPrice blocks until the next PutPrice for the symbol and returns
	// the value written by it. It always waits for a *future* write; a value
	// that is already stored is never returned. If the registration is
	// invalidated without a delivery (e.g. the symbol is deleted), a *Error
	// with code RetCChannelClosed is returned instead of blocking forever.
	NextPrice(symbol string) (value T, err error)
	// Delete removes a symbol. Waiters pending on the symbol are released
	// without a value; their NextPrice calls return RetCChannelClosed.
	// Deleting an unknown symbol is not an error.
	Delete(symbol string) (err error)
	// GetHolderInfo returns metadata about the holder: symbol and waiter
	// counts plus implementation specific details.
	GetHolderInfo() (info HolderInfo, err error)
	// SupportsFeature checks if the implementation supports the specified
	// feature. Multiple features can be checked at once using bitwise OR.
	SupportsFeature(feature Feature) (ok bool)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCWaiterAbandoned:
		errorCode = "WaiterAbandoned"
	case RetCChannelClosed:
		errorCode = "ChannelClosed"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("PriceHolderError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ErrCode extracts the RetCode from an error. It returns RetCSuccess for a
// nil error and RetCInternalError for errors not created by this package.
func ErrCode(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                       // 1: Operation failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the implementation.
	RetCWaiterAbandoned                     // 3: A value could not be delivered to one or more abandoned waiters.
	RetCChannelClosed                       // 4: A waiter registration was invalidated without a value delivery.
)

// --------------------------------------------------------------------------
// Features
// --------------------------------------------------------------------------

// Feature represents holder capabilities as bit flags
type Feature uint64

const (
	FeaturePut         Feature = 1 << iota // Support for PutPrice operations
	FeatureGet                             // Support for GetPrice operations
	FeatureNext                            // Support for NextPrice operations
	FeatureDelete                          // Support for Delete operations
	FeatureConcurrent                      // Safe for use from multiple goroutines without external locking
	FeatureContextNext                     // Support for context-cancellable NextPrice variants
)

func (f Feature) String() string {
	switch f {
	case FeaturePut:
		return "Put"
	case FeatureGet:
		return "Get"
	case FeatureNext:
		return "Next"
	case FeatureDelete:
		return "Delete"
	case FeatureConcurrent:
		return "Concurrent"
	case FeatureContextNext:
		return "ContextNext"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Holder Metadata
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplLocal  Implementation = "lholder"
	ImplShared Implementation = "sholder"
)

// HolderInfo describes the current state of a holder.
// It is not guaranteed that all fields are filled in by every implementation.
type HolderInfo struct {
	Symbols            int               `json:"symbols"`             // Number of known symbols
	PendingWaiters     int               `json:"pending_waiters"`     // Total number of registered waiters across all symbols
	WaiterDistribution util.Distribution `json:"waiter_distribution"` // Balance of waiters across symbols
	HolderType         Implementation    `json:"holder_type"`
	SupportedFeatures  []Feature         `json:"supported_features"`
	Metadata           interface{}       `json:"metadata"`
}
