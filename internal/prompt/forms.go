// Package prompt provides interactive terminal prompts built on huh.
package prompt

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Confirm shows a yes/no confirmation prompt.
func Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&result).
		Run()
	if err != nil {
		return defaultValue, err
	}
	return result, nil
}

// Input shows a text input prompt with an optional default.
func Input(title, placeholder, defaultValue string) (string, error) {
	result := defaultValue
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&result).
		Run()
	return result, err
}

// InputValidated shows a text input prompt with a validation function.
func InputValidated(title, placeholder string, validate func(string) error) (string, error) {
	var result string
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&result).
		Validate(validate).
		Run()
	return result, err
}

// Secret shows a masked input prompt for tokens and passwords.
func Secret(title, description string) (string, error) {
	var result string
	err := huh.NewInput().
		Title(title).
		Description(description).
		EchoMode(huh.EchoModePassword).
		Value(&result).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("this field is required")
			}
			return nil
		}).
		Run()
	return result, err
}

// SelectOption represents an option in a select prompt.
type SelectOption struct {
	Value string
	Label string
}

// Select shows a single-select prompt.
func Select(title, description string, options []SelectOption) (string, error) {
	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var result string
	err := huh.NewSelect[string]().
		Title(title).
		Description(description).
		Options(huhOptions...).
		Value(&result).
		Run()
	return result, err
}

// Note shows an informational note (non-interactive).
func Note(title, body string) error {
	return huh.NewNote().
		Title(title).
		Description(body).
		Run()
}
