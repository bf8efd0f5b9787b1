package util

import (
	"fmt"
	"math"
)

func ValidateAnchorDay(day int) bool {
	return day >= 1 && day <= 31
}

func ValidateAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}

// ValidateBudgetSettings checks a settings update before it is stored.
func ValidateBudgetSettings(monthlyBudget, fixedExpenses float64, anchorDay int) error {
	if !ValidateAmount(monthlyBudget) || monthlyBudget == 0 {
		return fmt.Errorf("monthly budget must be a positive number")
	}
	if !ValidateAmount(fixedExpenses) {
		return fmt.Errorf("fixed expenses must be zero or more")
	}
	if fixedExpenses > monthlyBudget {
		return fmt.Errorf("fixed expenses cannot exceed the monthly budget")
	}
	if !ValidateAnchorDay(anchorDay) {
		return fmt.Errorf("anchor day must be between 1 and 31")
	}
	return nil
}
