package script

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrBadCommand is returned by Parse for an alloc: line without a valid size
var ErrBadCommand = errors.New("malformed command")

// Parse reads one command per line. Tokens are whitespace separated; the first token is
// the verb. Blank lines and unrecognized verbs are skipped. Tokens after the ones a verb
// uses are ignored.
func Parse(r io.Reader) ([]Command, error) {
	var commands []Command

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case VerbAlloc.String():
			if len(fields) < 2 {
				return nil, errors.Wrapf(ErrBadCommand, "line %d: alloc: requires a size", line)
			}

			size, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errors.Wrapf(ErrBadCommand, "line %d: alloc: size %q is not an integer", line, fields[1])
			}

			commands = append(commands, Command{Line: line, Verb: VerbAlloc, Size: size})
		case VerbDealloc.String():
			commands = append(commands, Command{Line: line, Verb: VerbDealloc})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "could not read script after line %d", line)
	}

	return commands, nil
}

// Run executes commands against target in order and stops at the first failure. The
// returned error names the failing line and still matches the target's error with
// errors.Is.
func Run(target Target, commands []Command) error {
	for _, command := range commands {
		var err error

		switch command.Verb {
		case VerbAlloc:
			_, err = target.Allocate(command.Size)
		case VerbDealloc:
			_, err = target.Deallocate()
		default:
			err = errors.Newf("unknown verb %d", command.Verb)
		}

		if err != nil {
			return errors.Wrapf(err, "line %d: %s", command.Line, command)
		}
	}

	return nil
}

// Execute parses all of r and then runs it against target. Nothing is run if any line
// fails to parse.
func Execute(r io.Reader, target Target) error {
	commands, err := Parse(r)
	if err != nil {
		return err
	}

	return Run(target, commands)
}
