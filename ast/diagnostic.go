package ast

// ErrorKind classifies a recoverable syntax problem attached to a node.
type ErrorKind int

const (
	MissingEndBracket ErrorKind = iota
	MissingLeftOperand
	MissingRightOperand
	MissingSemicolon
	MissingBlock
	MissingVariableName
	MissingCondition
	RedundantDelimiter
)

var errorKindInfo = [...]struct {
	name    string
	message string
}{
	MissingEndBracket:   {"missing-end-bracket", "Missing closing bracket"},
	MissingLeftOperand:  {"missing-left-operand", "Missing left operand"},
	MissingRightOperand: {"missing-right-operand", "Missing right operand"},
	MissingSemicolon:    {"missing-semicolon", "Missing semicolon"},
	MissingBlock:        {"missing-block", "Missing block"},
	MissingVariableName: {"missing-variable-name", "Missing variable name"},
	MissingCondition:    {"missing-condition", "Missing condition"},
	RedundantDelimiter:  {"redundant-delimiter", "Redundant delimiter"},
}

// AllErrorKinds lists every diagnostic in declaration order.
var AllErrorKinds = []ErrorKind{
	MissingEndBracket,
	MissingLeftOperand,
	MissingRightOperand,
	MissingSemicolon,
	MissingBlock,
	MissingVariableName,
	MissingCondition,
	RedundantDelimiter,
}

// String returns the human readable message.
func (e ErrorKind) String() string {
	if e < 0 || int(e) >= len(errorKindInfo) {
		return "Unknown error"
	}
	return errorKindInfo[e].message
}

// Name returns the rule identifier used in configuration and reports.
func (e ErrorKind) Name() string {
	if e < 0 || int(e) >= len(errorKindInfo) {
		return "unknown"
	}
	return errorKindInfo[e].name
}

// diagnostics is an ordered set of error kinds. It is embedded in every
// node type.
type diagnostics struct {
	errs []ErrorKind
}

// Diagnostics returns the attached error kinds in insertion order.
func (d *diagnostics) Diagnostics() []ErrorKind { return d.errs }

// AddDiagnostic appends e unless it is already present.
func (d *diagnostics) AddDiagnostic(e ErrorKind) {
	if d.HasDiagnostic(e) {
		return
	}
	d.errs = append(d.errs, e)
}

func (d *diagnostics) HasDiagnostic(e ErrorKind) bool {
	for _, x := range d.errs {
		if x == e {
			return true
		}
	}
	return false
}
