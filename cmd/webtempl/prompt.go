package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

func promptTemplatePath(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out string
	prompt := &survey.Input{
		Message: "Template path:",
		Help:    "Relative to the resources directory or the working directory; the extension may be omitted.",
	}
	err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required))
	if errors.Is(err, terminal.InterruptErr) {
		return "", fmt.Errorf("render: prompt cancelled")
	}
	if err != nil {
		return "", fmt.Errorf("render: prompt: %w", err)
	}
	return strings.TrimSpace(out), nil
}
