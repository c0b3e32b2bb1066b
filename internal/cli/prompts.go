package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForMessage prompts for a free-form client message.
func PromptForMessage() (string, error) {
	var message string
	prompt := &survey.Input{
		Message: "Client message:",
		Help:    "Free-form text; it is classified and routed to the right division",
	}

	err := survey.AskOne(prompt, &message, survey.WithValidator(func(val interface{}) error {
		if strings.TrimSpace(val.(string)) == "" {
			return fmt.Errorf("message cannot be empty")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(message), nil
}

// PromptForSymbol prompts for a ticker symbol.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Ticker symbol (e.g., AAPL, MSFT):",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("symbol cannot be empty")
		}
		if len(str) > 10 {
			return fmt.Errorf("symbol too long (max 10 characters)")
		}
		matched, _ := regexp.MatchString(`^[A-Z0-9.-]+$`, str)
		if !matched {
			return fmt.Errorf("invalid symbol format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToUpper(symbol)), nil
}

// PromptForOrder collects the pieces of a client order.
func PromptForOrder() (symbol, side string, quantity int64, err error) {
	symbol, err = PromptForSymbol()
	if err != nil {
		return "", "", 0, err
	}

	if err = survey.AskOne(&survey.Select{
		Message: "Side:",
		Options: []string{"buy", "sell"},
		Default: "buy",
	}, &side); err != nil {
		return "", "", 0, err
	}

	var qtyStr string
	if err = survey.AskOne(&survey.Input{
		Message: "Quantity:",
		Default: "1000",
	}, &qtyStr, survey.WithValidator(func(val interface{}) error {
		var q int64
		if _, serr := fmt.Sscanf(strings.TrimSpace(val.(string)), "%d", &q); serr != nil || q <= 0 {
			return fmt.Errorf("quantity must be a positive integer")
		}
		return nil
	})); err != nil {
		return "", "", 0, err
	}
	fmt.Sscanf(strings.TrimSpace(qtyStr), "%d", &quantity)
	return symbol, side, quantity, nil
}

// PromptForAction shows the interactive main menu.
func PromptForAction() (string, error) {
	var action string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: []string{
			"Send a client message",
			"Submit a client order",
			"Push a market update",
			"Push a live market update",
			"Resolve a conflict",
			"Show firm status",
			"Quit",
		},
	}
	err := survey.AskOne(prompt, &action)
	return action, err
}
