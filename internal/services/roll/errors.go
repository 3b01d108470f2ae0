package roll

// RollError is a custom error type for roll lifecycle errors
type RollError string

// Error implements the error interface
func (e RollError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInvalidConfiguration RollError = "invalid roll configuration"
	ErrRollNotFound         RollError = "roll not found"
	ErrAlreadyRevealed      RollError = "roll already revealed"
	ErrStoreUnavailable     RollError = "roll store unavailable"
	ErrNilConfig            RollError = "config cannot be nil"
	ErrNilRepository        RollError = "roll repository cannot be nil"
	ErrNilRoller            RollError = "dice roller cannot be nil"
	ErrNilClock             RollError = "clock cannot be nil"
	ErrNilIDGenerator       RollError = "ID generator cannot be nil"
	ErrEmptyRollID          RollError = "roll ID cannot be empty"
	ErrLabelTooLong         RollError = "label is too long"
)
