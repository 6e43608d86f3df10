package auton

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bot-go-brr/brain/internal/inst"
)

// Authoring mnemonics, one statement is `<op> <+|-><value>;`
const (
	OpAngle      = "ag"
	OpPosition   = "ps"
	OpThrust     = "th"
	OpBelt       = "bt"
	OpSolenoid   = "sl"
	OpLeftDrive  = "ld"
	OpRightDrive = "rd"
	OpCycle      = "c"

	commentChar = "#"
)

var ErrSyntax = errors.New("syntax error")

// ParseError locates a problem in an authored program
type ParseError struct {
	Line      int
	Statement string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: '%s': %v", e.Line, e.Statement, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type parser struct {
	current inst.Instruction

	left  *int
	right *int

	program Program
}

// ParseProgram parses the human editable authoring format, e.g.
//
//	ag +90; th +6000; c +50;  # turn right and drive for 50 ticks
//	th +0; bt +1; c +100;
//
// Every `c` statement emits the current state for the given number of ticks.
// Identical consecutive cycles merge, a run longer than MaxUint32 ticks is
// split over several entries.
//
// `ld`/`rd` are accepted only while both sides agree, they become the thrust.
// The packed layout has no differential drive, so a statement list such as
//
//	ld +12000; rd -6000; c +5;
//
// fails to load; turns are written as a target angle (`ag`) instead.
func ParseProgram(r io.Reader) (Program, error) {
	p := &parser{}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if idx := strings.Index(line, commentChar); idx >= 0 {
			line = line[:idx]
		}

		statements := strings.Split(line, ";")
		// the text after the last ';' must be empty
		if trailing := strings.TrimSpace(statements[len(statements)-1]); trailing != "" {
			return nil, &ParseError{Line: lineNumber, Statement: trailing, Err: fmt.Errorf("%w: missing ';'", ErrSyntax)}
		}

		for _, statement := range statements[:len(statements)-1] {
			statement = strings.TrimSpace(statement)
			if err := p.statement(statement); err != nil {
				return nil, &ParseError{Line: lineNumber, Statement: statement, Err: err}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return p.program, nil
}

// ParseProgramString is a convenience wrapper around ParseProgram
func ParseProgramString(source string) (Program, error) {
	return ParseProgram(strings.NewReader(source))
}

func (p *parser) statement(statement string) error {
	fields := strings.Fields(statement)
	if len(fields) != 2 {
		return fmt.Errorf("%w: expected '<op> <+|-><value>'", ErrSyntax)
	}
	op, raw := fields[0], fields[1]

	if raw[0] != '+' && raw[0] != '-' {
		return fmt.Errorf("%w: value must carry an explicit sign", ErrSyntax)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid value: %v", ErrSyntax, err)
	}

	switch op {
	case OpAngle:
		if err := checkRange(value, inst.MinAngle, inst.MaxAngle); err != nil {
			return err
		}
		p.current.TargetAngle = int16(value)
	case OpPosition:
		if err := checkRange(value, inst.MinPosition, inst.MaxPosition); err != nil {
			return err
		}
		p.current.TargetPosition = int16(value)
	case OpThrust:
		if err := checkRange(value, inst.MinThrust, inst.MaxThrust); err != nil {
			return err
		}
		p.current.Thrust = int16(value)
		p.left, p.right = nil, nil
	case OpBelt:
		if err := checkRange(value, -1, 1); err != nil {
			return err
		}
		p.current.BeltActive = value != 0
		p.current.BeltUp = value > 0
	case OpSolenoid:
		if err := checkRange(value, 0, 1); err != nil {
			return err
		}
		p.current.SolenoidActive = value == 1
	case OpLeftDrive, OpRightDrive:
		if err := checkRange(value, inst.MinThrust, inst.MaxThrust); err != nil {
			return err
		}
		v := int(value)
		if op == OpLeftDrive {
			p.left = &v
		} else {
			p.right = &v
		}
	case OpCycle:
		if err := checkRange(value, 1, math.MaxUint32); err != nil {
			return err
		}
		if err := p.resolveDrive(); err != nil {
			return err
		}
		p.program = p.program.Append(p.current, uint32(value))
	default:
		return fmt.Errorf("%w: unknown mnemonic '%s'", ErrSyntax, op)
	}
	return nil
}

// resolveDrive folds pending left/right drive statements into the thrust.
// The packed layout carries no differential drive, turning is expressed
// through the target angle instead.
func (p *parser) resolveDrive() error {
	if p.left == nil && p.right == nil {
		return nil
	}
	left, right := 0, 0
	if p.left != nil {
		left = *p.left
	}
	if p.right != nil {
		right = *p.right
	}
	if left != right {
		return fmt.Errorf("differential drive %+d/%+d cannot be represented, use '%s' to turn", left, right, OpAngle)
	}
	p.current.Thrust = int16(left)
	return nil
}

func checkRange(value int64, min int64, max int64) error {
	if value < min || value > max {
		return fmt.Errorf("%w: %d not in [%d, %d]", inst.ErrOutOfRange, value, min, max)
	}
	return nil
}

// FormatProgram renders a program in the authoring format. Only fields that
// changed since the previous entry are written.
func FormatProgram(program Program) string {
	var sb strings.Builder
	var prev *inst.Instruction

	for idx := range program {
		i := program[idx].Instruction
		var statements []string
		if prev == nil || prev.TargetAngle != i.TargetAngle {
			statements = append(statements, formatStatement(OpAngle, int64(i.TargetAngle)))
		}
		if prev == nil || prev.TargetPosition != i.TargetPosition {
			statements = append(statements, formatStatement(OpPosition, int64(i.TargetPosition)))
		}
		if prev == nil || prev.BeltDirection() != i.BeltDirection() {
			statements = append(statements, formatStatement(OpBelt, int64(i.BeltDirection())))
		}
		if prev == nil || prev.SolenoidActive != i.SolenoidActive {
			solenoid := int64(0)
			if i.SolenoidActive {
				solenoid = 1
			}
			statements = append(statements, formatStatement(OpSolenoid, solenoid))
		}
		if prev == nil || prev.Thrust != i.Thrust {
			statements = append(statements, formatStatement(OpThrust, int64(i.Thrust)))
		}
		statements = append(statements, formatStatement(OpCycle, int64(program[idx].Duration)))

		sb.WriteString(strings.Join(statements, " "))
		sb.WriteString("\n")
		prev = &i
	}
	return sb.String()
}

func formatStatement(op string, value int64) string {
	return fmt.Sprintf("%s %+d;", op, value)
}
