package auton

import (
	"math"
	"testing"

	"github.com/bot-go-brr/brain/internal/inst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	// GIVEN
	source := `
# grab the goal
ag +0; th +6000; c +50;
sl +1; th +0; c +18;   # clamp
bt +1; ag -90; ps -120; c +200;
`

	// WHEN
	program, err := ParseProgramString(source)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, Program{
		{inst.Instruction{Thrust: 6000}, 50},
		{inst.Instruction{SolenoidActive: true}, 18},
		{inst.Instruction{SolenoidActive: true, BeltActive: true, BeltUp: true, TargetAngle: -90, TargetPosition: -120}, 200},
	}, program)
}

func TestParseProgram_LeftRightDrive(t *testing.T) {
	// WHEN
	program, err := ParseProgramString("ld +12000; rd +12000; c +5;")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, Program{{inst.Instruction{Thrust: 12000}, 5}}, program)
}

func TestParseProgram_DifferentialDriveRejected(t *testing.T) {
	// WHEN
	_, err := ParseProgramString("ld +12000; rd -6000; c +5;")

	// THEN
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Line)
	assert.Equal(t, "c +5", parseErr.Statement)
}

func TestParseProgram_MergesIdenticalCycles(t *testing.T) {
	program, err := ParseProgramString("th +100; c +2;\nc +3;")
	require.NoError(t, err)
	assert.Equal(t, Program{{inst.Instruction{Thrust: 100}, 5}}, program)
}

func TestParseProgram_LongCycleSplitsEntries(t *testing.T) {
	// WHEN
	program, err := ParseProgramString("th +6000; c +4294967295; c +2;")

	// THEN
	require.NoError(t, err)
	require.Len(t, program, 2)
	assert.Equal(t, uint32(math.MaxUint32), program[0].Duration)
	assert.Equal(t, uint32(2), program[1].Duration)
	assert.Equal(t, program[0].Instruction, program[1].Instruction)
	assert.Equal(t, uint64(4294967297), program.Ticks())
}

func TestParseProgram_UnknownMnemonic(t *testing.T) {
	// WHEN
	_, err := ParseProgramString("c +1;\nxx +1;")

	// THEN
	assert.ErrorIs(t, err, ErrSyntax)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}

func TestParseProgram_Errors(t *testing.T) {
	for _, source := range []string{
		"th 100;",
		"th +100",
		"th +100; c +1",
		"th;",
		"th +1 +2;",
		"th +abc;",
	} {
		_, err := ParseProgramString(source)
		assert.ErrorIs(t, err, ErrSyntax, "source: %s", source)
	}
}

func TestParseProgram_OutOfRange(t *testing.T) {
	for _, source := range []string{
		"ag +181;",
		"ps +256;",
		"th -12001;",
		"bt +2;",
		"sl -1;",
		"c -1;",
		"c +0;",
	} {
		_, err := ParseProgramString(source)
		assert.ErrorIs(t, err, inst.ErrOutOfRange, "source: %s", source)
	}
}

func TestParseProgram_Empty(t *testing.T) {
	program, err := ParseProgramString("# nothing here\n\n")
	assert.NoError(t, err)
	assert.Empty(t, program)
}

func TestFormatProgram_RoundTrip(t *testing.T) {
	// GIVEN
	program := Program{
		{inst.Instruction{TargetAngle: 45, Thrust: -3000}, 12},
		{inst.Instruction{TargetAngle: 45, BeltActive: true}, 1},
		{inst.Instruction{TargetPosition: 200, SolenoidActive: true}, 300},
	}

	// WHEN
	source := FormatProgram(program)
	parsed, err := ParseProgramString(source)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, program, parsed)
}

func TestFormatProgram_FirstLine(t *testing.T) {
	source := FormatProgram(Program{{inst.Instruction{TargetAngle: 45, Thrust: -3000}, 12}})
	assert.Equal(t, "ag +45; ps +0; bt +0; sl +0; th -3000; c +12;\n", source)
}
