package ui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the operator declines or interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Confirm asks a yes/no question defaulting to no.
func Confirm(question, help string) error {
	proceed := false
	prompt := &survey.Confirm{Message: question, Help: help, Default: false}
	if err := survey.AskOne(prompt, &proceed); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	if !proceed {
		return ErrAborted
	}
	return nil
}

// NewPassword asks for a password twice.
func NewPassword(minLength int) (string, error) {
	var password, again string

	err := survey.AskOne(&survey.Password{Message: "Password:"}, &password,
		survey.WithValidator(survey.Required),
		survey.WithValidator(survey.MinLength(minLength)),
	)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if err := survey.AskOne(&survey.Password{Message: "Repeat password:"}, &again); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	if password != again {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}
