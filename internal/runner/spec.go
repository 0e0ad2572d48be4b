package runner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseSpecs reads one task per line in the form "name,command". Blank lines
// and lines starting with '#' are skipped; a line without a comma uses the
// command as its name.
func ParseSpecs(r io.Reader) ([]Spec, error) {
	var specs []Spec
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		name, command, found := strings.Cut(s, ",")
		if !found {
			command = name
		}
		name = strings.TrimSpace(name)
		command = strings.TrimSpace(command)
		if command == "" {
			return nil, fmt.Errorf("line %d: empty command", lineNo)
		}
		specs = append(specs, Spec{Name: name, Command: command})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}
