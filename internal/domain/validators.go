package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	amountRegex   = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	accountRegex  = regexp.MustCompile(`^\d{8,20}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?\d{7,15}$`)
	spaceRegex    = regexp.MustCompile(`\s+`)
)

// ParseAmount parses a non-negative decimal string with at most 2 fractional
// digits into hundredths (centi-ZC or paisa). Stored amounts keep full
// precision; 2 decimal places is the input contract, not a rounding policy.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !amountRegex.MatchString(s) {
		return 0, fmt.Errorf("amount must be a non-negative number with at most 2 decimal places")
	}

	whole, frac := s, "00"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount too large")
	}
	f, _ := strconv.ParseInt(frac, 10, 64)
	if w > (1<<62)/100 {
		return 0, fmt.Errorf("amount too large")
	}
	return w*100 + f, nil
}

// ParseSignedAmount parses a decimal string that may carry a leading minus
// sign (manual adjustment deltas).
func ParseSignedAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	v, err := ParseAmount(strings.TrimPrefix(s, "-"))
	if err != nil {
		return 0, err
	}
	if neg {
		return -v, nil
	}
	return v, nil
}

// FormatAmount renders hundredths as a 2-decimal string for display.
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// SanitizeText strips characters with markup or injection potential,
// collapses whitespace runs and trims. Applied to every free-text field
// before persistence.
func SanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'', ';', '&':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// ValidateUsername checks the 3-20 char alphanumeric+underscore rule.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-20 characters of letters, digits and underscore")
	}
	return nil
}

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone checks a WhatsApp/phone contact number.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid contact number")
	}
	return nil
}

// ValidateAccountNumber checks the 8-20 digit bank account rule.
func ValidateAccountNumber(account string) error {
	if !accountRegex.MatchString(account) {
		return fmt.Errorf("account number must be 8-20 digits")
	}
	return nil
}

// SanitizeBankAccount sanitizes the free-text fields and validates the
// account number. Returns the cleaned copy.
func SanitizeBankAccount(acct BankAccount) (BankAccount, error) {
	acct.BankName = SanitizeText(acct.BankName)
	acct.HolderName = SanitizeText(acct.HolderName)
	acct.AccountNumber = strings.TrimSpace(acct.AccountNumber)
	if acct.BankName == "" {
		return acct, fmt.Errorf("bank name is required")
	}
	if acct.HolderName == "" {
		return acct, fmt.Errorf("account holder name is required")
	}
	if err := ValidateAccountNumber(acct.AccountNumber); err != nil {
		return acct, err
	}
	if acct.IBAN != nil {
		iban := SanitizeText(*acct.IBAN)
		if iban == "" {
			acct.IBAN = nil
		} else {
			acct.IBAN = &iban
		}
	}
	return acct, nil
}

// ValidatePositiveAmount checks that an amount in hundredths is positive.
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}
