// Package operation defines the filter criteria model: a closed set of
// operation variants, the operator tags they accept, and validation.
//
// Each variant fixes the shape of its operands:
//
//	NoValue      NULL, NOT_NULL, TRUE, FALSE        no operands
//	SingleValue  EQ, NOT_EQ, GT, GE, LT, LE,        one operand
//	             LIKE, NOT_LIKE
//	MultiValue   IN, NOT_IN                         N operands (N >= 0)
//	RangeValue   BT                                 (low, high)
//	CompoundOr   none                               never valid
//
// Validation checks, in order: property present, operator present,
// operator allowed for the variant, then the variant's operands. The first
// failure is reported as a *ValidationError matching ErrInvalidArgument.
//
// Criteria decode from JSON with the operator tag selecting the variant;
// see Decode.
package operation
