package domain

import (
	"strconv"
	"time"
)

// PaymentForm is the card data entered on the payment screen. Expiry is split
// into a two digit year and month, both as typed.
type PaymentForm struct {
	CardNumber  string `json:"card_number"`
	ExpiryYear  string `json:"expiry_year"`
	ExpiryMonth string `json:"expiry_month"`
	CVV         string `json:"cvv"`
}

// PaymentReport is the per-field outcome of checking a PaymentForm.
type PaymentReport struct {
	CardNumberValid  bool `json:"card_number_valid"`
	ExpiryYearValid  bool `json:"expiry_year_valid"`
	ExpiryMonthValid bool `json:"expiry_month_valid"`
	ExpiryDateValid  bool `json:"expiry_date_valid"`
	CVVValid         bool `json:"cvv_valid"`
	PayEnabled       bool `json:"pay_enabled"`
}

// Check validates the form against the month containing now. The expiry date
// rule only applies once both year and month are well formed; until then it
// reports valid so an incomplete field is not flagged twice.
func (f PaymentForm) Check(now time.Time) PaymentReport {
	r := PaymentReport{
		CardNumberValid: len(f.CardNumber) == 16 && allDigits(f.CardNumber),
		ExpiryYearValid: len(f.ExpiryYear) == 2 && allDigits(f.ExpiryYear),
		CVVValid:        len(f.CVV) >= 3 && len(f.CVV) <= 4 && allDigits(f.CVV),
		ExpiryDateValid: true,
	}

	if len(f.ExpiryMonth) == 2 && allDigits(f.ExpiryMonth) {
		m, _ := strconv.Atoi(f.ExpiryMonth)
		r.ExpiryMonthValid = m >= 1 && m <= 12
	}

	if r.ExpiryYearValid && r.ExpiryMonthValid {
		y, _ := strconv.Atoi(f.ExpiryYear)
		m, _ := strconv.Atoi(f.ExpiryMonth)
		r.ExpiryDateValid = notExpired(y, m, now)
	}

	r.PayEnabled = r.CardNumberValid && r.ExpiryYearValid && r.ExpiryMonthValid &&
		r.ExpiryDateValid && r.CVVValid
	return r
}

// notExpired compares a two digit year and month against now. A card is good
// through the end of its expiry month.
func notExpired(yy, mm int, now time.Time) bool {
	curYY := now.Year() % 100
	curMM := int(now.Month())
	switch {
	case yy < curYY:
		return false
	case yy > curYY:
		return true
	default:
		return mm >= curMM
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
