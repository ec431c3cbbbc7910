// Package validate holds field validators shared by the domain
// services.
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// NationalID validates a Turkish national identity number (TC Kimlik
// No): 11 digits, first digit non-zero, with the two standard checksum
// digits.
func NationalID(id string) error {
	if len(id) != 11 {
		return fmt.Errorf("national id must be 11 digits")
	}
	digits := make([]int, 11)
	for i, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("national id must contain only digits")
		}
		digits[i] = int(r - '0')
	}
	if digits[0] == 0 {
		return fmt.Errorf("national id cannot start with zero")
	}

	oddSum := digits[0] + digits[2] + digits[4] + digits[6] + digits[8]
	evenSum := digits[1] + digits[3] + digits[5] + digits[7]

	check10 := (oddSum*7 - evenSum) % 10
	if check10 < 0 {
		check10 += 10
	}
	if digits[9] != check10 {
		return fmt.Errorf("invalid national id")
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += digits[i]
	}
	if digits[10] != sum%10 {
		return fmt.Errorf("invalid national id")
	}
	return nil
}

// Phone validates a Turkish phone number. Accepts "05XXXXXXXXX",
// "+905XXXXXXXXX" or "5XXXXXXXXX" with optional spaces.
func Phone(phone string) error {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, phone)

	cleaned = strings.TrimPrefix(cleaned, "+90")
	cleaned = strings.TrimPrefix(cleaned, "0")

	if len(cleaned) != 10 {
		return fmt.Errorf("phone must have 10 digits after the country code")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone must contain only digits")
		}
	}
	if cleaned[0] != '5' {
		return fmt.Errorf("mobile phone must start with 5")
	}
	return nil
}
