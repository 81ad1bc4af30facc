package ui

import (
	"errors"
	"fmt"
	"strings"

	"updater/pkg/versioncheck"

	"github.com/manifoldco/promptui"
)

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	label := prompt
	if defaultYes {
		label += " [Y/n]"
	} else {
		label += " [y/N]"
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, err
		}
		return defaultYes, nil
	}

	return parseAnswer(result, defaultYes), nil
}

func parseAnswer(result string, defaultYes bool) bool {
	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes
	}
	return result == "y" || result == "yes"
}

// VersionItem is a row in the version selector.
type VersionItem struct {
	Version   string
	Stability string
}

// VersionItems pairs each version with its stability label.
func VersionItems(versions []string) []VersionItem {
	items := make([]VersionItem, len(versions))
	for i, v := range versions {
		items[i] = VersionItem{Version: v, Stability: versioncheck.StabilityOf(v).String()}
	}
	return items
}

// SelectVersion prompts for one of versions with a filterable list.
func SelectVersion(pkg string, versions []string) (string, error) {
	if len(versions) == 0 {
		return "", fmt.Errorf("no versions to select from")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Version | cyan }} {{ .Stability | faint }}",
		Inactive: "  {{ .Version }} {{ .Stability | faint }}",
		Selected: "✓ {{ .Version | green }}",
	}

	items := VersionItems(versions)
	p := promptui.Select{
		Label:     "Version of " + pkg,
		Items:     items,
		Templates: templates,
		Size:      12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(items[index].Version, strings.TrimSpace(input))
		},
	}

	index, _, err := p.Run()
	if err != nil {
		return "", err
	}
	return items[index].Version, nil
}
