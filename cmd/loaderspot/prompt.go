package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LoaderSpot/LoaderSpot/internal/platform"
)

// maxRangeWidth bounds the interactive search window.
const maxRangeWidth = 20000

// prompter reads validated answers from an interactive terminal.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints prompt and returns one trimmed input line. io.EOF means the
// user closed stdin.
func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// askValid re-prompts until valid accepts the answer.
func (p *prompter) askValid(prompt string, valid func(string) bool, errMsg string) (string, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return "", err
		}
		if valid(answer) {
			return answer, nil
		}
		fmt.Fprintln(p.out, errMsg)
	}
}

func (p *prompter) askVersion() (string, error) {
	return p.askValid(
		"Spotify version, for example 1.1.68.632.g2b11de83: ",
		platform.ValidVersion,
		"Invalid version format",
	)
}

func (p *prompter) askMaxConnections(defaultValue int) (int, error) {
	for {
		answer, err := p.ask(fmt.Sprintf("Maximum number of concurrent connections (default %d): ", defaultValue))
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return defaultValue, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n > 0 {
			return n, nil
		}
		fmt.Fprintln(p.out, "Please enter a valid positive number")
	}
}

// askRange prompts for the inclusive [start, end] search window. The end is
// rejected unless start <= end <= start+maxRangeWidth.
func (p *prompter) askRange() (start, end int, err error) {
	answer, err := p.askValid(
		"Start search from: ",
		isNumber,
		"Please enter a valid number",
	)
	if err != nil {
		return 0, 0, err
	}
	start, _ = strconv.Atoi(answer)

	answer, err = p.askValid(
		"End search at: ",
		func(s string) bool {
			if !isNumber(s) {
				return false
			}
			n, _ := strconv.Atoi(s)
			return n >= start && n-start <= maxRangeWidth
		},
		fmt.Sprintf("Please enter a valid number that is at least %d and no more than %d", start, start+maxRangeWidth),
	)
	if err != nil {
		return 0, 0, err
	}
	end, _ = strconv.Atoi(answer)

	return start, end, nil
}

// askPlatforms shows the numbered platform menu for version and returns the
// selection. The extra last item selects every listed platform.
func (p *prompter) askPlatforms(version string) ([]platform.Platform, error) {
	available := platform.Default(version)

	fmt.Fprintln(p.out, "\nSelect the link type for the search:")
	for i, pl := range available {
		fmt.Fprintf(p.out, "[%d] %s\n", i+1, pl)
	}
	fmt.Fprintf(p.out, "[%d] All platforms\n", len(available)+1)

	for {
		answer, err := p.ask("Enter the number(s): ")
		if err != nil {
			return nil, err
		}

		selected, all, ok := parsePlatformChoices(answer, len(available))
		if !ok {
			fmt.Fprintf(p.out, "Invalid input. Please enter numbers between 1 and %d\n", len(available)+1)
			continue
		}
		if all {
			return available, nil
		}
		if len(selected) == 0 {
			fmt.Fprintln(p.out, "Please select at least one valid platform")
			continue
		}

		platforms := make([]platform.Platform, len(selected))
		for i, idx := range selected {
			platforms[i] = available[idx]
		}
		return platforms, nil
	}
}

// parsePlatformChoices parses a comma-separated list of 1-based menu
// indices. all is true when the all-platforms item (count+1) was chosen.
func parsePlatformChoices(answer string, count int) (selected []int, all, ok bool) {
	for _, field := range strings.Split(answer, ",") {
		field = strings.TrimSpace(field)
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > count+1 {
			return nil, false, false
		}
		if n == count+1 {
			all = true
			continue
		}
		if !containsInt(selected, n-1) {
			selected = append(selected, n-1)
		}
	}
	return selected, all, true
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
