// Package selector picks one SkyBlock profile, either by prompting or by
// name.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"craftwiz/internal/hypixel"
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoProfiles       = errors.New("no profiles available")
)

// List writes the numbered profile menu.
func List(out io.Writer, profiles []hypixel.Profile) {
	fmt.Fprintln(out, "\nAvailable Profiles:")
	for i, p := range profiles {
		marker := ""
		if p.Selected {
			marker = " *"
		}
		fmt.Fprintf(out, "%d. %s (ID: %s)%s\n", i+1, p.CuteName, p.ID, marker)
	}
}

// Prompt lists profiles and reads a 1-based choice from in.
func Prompt(in io.Reader, out io.Writer, profiles []hypixel.Profile) (hypixel.Profile, error) {
	if len(profiles) == 0 {
		return hypixel.Profile{}, ErrNoProfiles
	}
	List(out, profiles)
	fmt.Fprint(out, "Select a profile by number: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return hypixel.Profile{}, err
	}
	return Pick(profiles, line)
}

// Pick resolves a 1-based choice string.
func Pick(profiles []hypixel.Profile, choice string) (hypixel.Profile, error) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(profiles) {
		return hypixel.Profile{}, fmt.Errorf("%w: %q", ErrInvalidSelection, strings.TrimSpace(choice))
	}
	return profiles[n-1], nil
}

// ByName finds a profile by cute name, case-insensitively, or by profile id.
// An empty name picks the profile the player last had selected, falling back
// to the first.
func ByName(profiles []hypixel.Profile, name string) (hypixel.Profile, error) {
	if len(profiles) == 0 {
		return hypixel.Profile{}, ErrNoProfiles
	}
	name = strings.TrimSpace(name)
	if name == "" {
		for _, p := range profiles {
			if p.Selected {
				return p, nil
			}
		}
		return profiles[0], nil
	}
	for _, p := range profiles {
		if strings.EqualFold(p.CuteName, name) || p.ID == name {
			return p, nil
		}
	}
	return hypixel.Profile{}, fmt.Errorf("%w: no profile named %q", ErrInvalidSelection, name)
}
